package web

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/application/dto"
)

func (s *Server) commentsList(c *fiber.Ctx) error {
	comments, err := s.api.ListComments(c.UserContext(), currentIdentity(c).Token)
	if err != nil {
		if IsUnauthorized(err) {
			return s.sessionExpired(c)
		}
		addFlash(c, flashDanger, userMessage(err, "Ошибка загрузки комментариев"))
		comments = []dto.CommentResponse{}
	}
	return s.render(c, "comments/list", "Комментарии", fiber.Map{"Comments": comments})
}

func (s *Server) commentCreateForm(c *fiber.Ctx) error {
	return s.render(c, "comments/create", "Новый комментарий", fiber.Map{
		"RequestID": c.Query("request_id"),
	})
}

// commentCreate master_id vacío = el usuario de la sesión (lo resuelve la API).
func (s *Server) commentCreate(c *fiber.Ctx) error {
	in := dto.CreateCommentRequest{Message: strings.TrimSpace(c.FormValue("message"))}
	requestID, err := strconv.ParseInt(strings.TrimSpace(c.FormValue("request_id")), 10, 64)
	if err != nil || requestID <= 0 {
		addFlash(c, flashDanger, "Некорректный номер заявки")
		return s.render(c, "comments/create", "Новый комментарий", fiber.Map{"Form": in})
	}
	in.RequestID = requestID
	if v := strings.TrimSpace(c.FormValue("master_id")); v != "" {
		masterID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || masterID <= 0 {
			addFlash(c, flashDanger, "Некорректный ID специалиста")
			return s.render(c, "comments/create", "Новый комментарий", fiber.Map{"Form": in})
		}
		in.MasterID = masterID
	}

	if err := s.api.CreateComment(c.UserContext(), currentIdentity(c).Token, in); err != nil {
		if IsUnauthorized(err) {
			return s.sessionExpired(c)
		}
		addFlash(c, flashDanger, userMessage(err, "Ошибка добавления комментария"))
		return s.render(c, "comments/create", "Новый комментарий", fiber.Map{"Form": in})
	}
	addFlash(c, flashSuccess, "Комментарий успешно добавлен!")
	return c.Redirect("/comments")
}
