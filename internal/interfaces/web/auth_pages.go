package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/domain/entity"
)

func (s *Server) loginForm(c *fiber.Ctx) error {
	return s.render(c, "auth/login", "Вход в систему", nil)
}

// login obtiene el token y después rol e id desde GET /auth/me; nunca se decodifica el token aquí.
func (s *Server) login(c *fiber.Ctx) error {
	ctx := c.UserContext()
	login := strings.TrimSpace(c.FormValue("login"))
	password := c.FormValue("password")

	tok, err := s.api.Login(ctx, login, password)
	if err != nil {
		addFlash(c, flashDanger, userMessage(err, "Неверный логин или пароль"))
		return s.render(c, "auth/login", "Вход в систему", fiber.Map{"Login": login})
	}
	me, err := s.api.Me(ctx, tok.AccessToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("perfil tras login")
		addFlash(c, flashDanger, userMessage(err, "Не удалось получить данные пользователя"))
		return s.render(c, "auth/login", "Вход в систему", fiber.Map{"Login": login})
	}
	role, err := entity.ParseRole(me.UserType)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", me.UserID).Msg("rol desconocido en perfil")
		addFlash(c, flashDanger, "Неизвестная роль пользователя")
		return s.render(c, "auth/login", "Вход в систему", fiber.Map{"Login": login})
	}
	if err := signIn(c, Identity{Token: tok.AccessToken, Role: role, UserID: me.UserID}); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", me.UserID).Str("role", string(role)).Msg("sesión iniciada")
	addFlash(c, flashSuccess, "Вход выполнен успешно!")
	return c.Redirect("/")
}

func (s *Server) logout(c *fiber.Ctx) error {
	if err := signOut(c); err != nil {
		return err
	}
	addFlash(c, flashInfo, "Вы успешно вышли из системы")
	return c.Redirect("/")
}
