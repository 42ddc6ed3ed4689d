package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/domain/entity"
)

const (
	msgLoginRequired  = "Для доступа к этой странице необходимо войти в систему"
	msgNoRights       = "У вас недостаточно прав для доступа к этой странице"
	msgCustomerOnly   = "Эта страница только для заказчиков"
	msgSessionExpired = "Сессия истекла. Пожалуйста, войдите снова."
	msgDeleteCanceled = "Удаление отменено"
)

// loginRequired redirige a /login si la sesión no tiene token y rol.
func loginRequired(c *fiber.Ctx) error {
	if !currentIdentity(c).LoggedIn() {
		addFlash(c, flashWarning, msgLoginRequired)
		return c.Redirect("/login")
	}
	return c.Next()
}

// roleRequired redirige a la página principal si el rol de la sesión no está en roles.
func roleRequired(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := currentIdentity(c)
		if !id.LoggedIn() {
			addFlash(c, flashWarning, msgLoginRequired)
			return c.Redirect("/login")
		}
		if !id.Role.In(roles...) {
			addFlash(c, flashDanger, msgNoRights)
			return c.Redirect("/")
		}
		return c.Next()
	}
}

// customerOnly páginas de autoservicio; el personal vuelve a la página principal.
func customerOnly(c *fiber.Ctx) error {
	if currentIdentity(c).Role != entity.RoleCustomer {
		addFlash(c, flashWarning, msgCustomerOnly)
		return c.Redirect("/")
	}
	return c.Next()
}

// apiFailure convierte un error de la API en flash + redirección.
// Un 401 cierra la sesión y manda a /login sin importar el destino pedido.
func (s *Server) apiFailure(c *fiber.Ctx, err error, fallback, redirectTo string) error {
	if IsUnauthorized(err) {
		return s.sessionExpired(c)
	}
	s.log.Warn().Err(err).Str("path", c.Path()).Msg("llamada a la API fallida")
	addFlash(c, flashDanger, userMessage(err, fallback))
	return c.Redirect(redirectTo)
}

func (s *Server) sessionExpired(c *fiber.Ctx) error {
	if err := signOut(c); err != nil {
		return err
	}
	addFlash(c, flashWarning, msgSessionExpired)
	return c.Redirect("/login")
}
