package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/domain/entity"
)

func (s *Server) usersList(c *fiber.Ctx) error {
	id := currentIdentity(c)
	users, err := s.api.ListUsers(c.UserContext(), id.Token)
	if err != nil {
		if IsUnauthorized(err) {
			return s.sessionExpired(c)
		}
		addFlash(c, flashDanger, userMessage(err, "Ошибка загрузки пользователей"))
		users = []dto.UserResponse{}
	}
	return s.render(c, "users/list", "Управление пользователями", fiber.Map{"Users": users})
}

func (s *Server) userCreateForm(c *fiber.Ctx) error {
	return s.render(c, "users/create", "Создание пользователя", fiber.Map{"Roles": entity.AllRoles})
}

func (s *Server) userCreate(c *fiber.Ctx) error {
	id := currentIdentity(c)
	in := dto.CreateUserRequest{
		FIO:      strings.TrimSpace(c.FormValue("fio")),
		Phone:    strings.TrimSpace(c.FormValue("phone")),
		Login:    strings.TrimSpace(c.FormValue("login")),
		Password: c.FormValue("password"),
		UserType: c.FormValue("user_type"),
	}
	if err := s.api.CreateUser(c.UserContext(), id.Token, in); err != nil {
		if IsUnauthorized(err) {
			return s.sessionExpired(c)
		}
		addFlash(c, flashDanger, userMessage(err, "Ошибка создания пользователя"))
		in.Password = ""
		return s.render(c, "users/create", "Создание пользователя", fiber.Map{"Roles": entity.AllRoles, "Form": in})
	}
	addFlash(c, flashSuccess, "Пользователь успешно создан!")
	return c.Redirect("/users")
}

func (s *Server) userDelete(c *fiber.Ctx) error {
	userID, err := pathID(c)
	if err != nil {
		return err
	}
	if c.FormValue("confirm") != "yes" {
		addFlash(c, flashWarning, msgDeleteCanceled)
		return c.Redirect("/users")
	}
	if err := s.api.DeleteUser(c.UserContext(), currentIdentity(c).Token, userID); err != nil {
		return s.apiFailure(c, err, "Ошибка удаления пользователя", "/users")
	}
	addFlash(c, flashSuccess, "Пользователь успешно удалён")
	return c.Redirect("/users")
}
