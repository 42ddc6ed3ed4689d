package web

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/domain/entity"
)

func (s *Server) myRequests(c *fiber.Ctx) error {
	status := strings.TrimSpace(c.Query("status"))
	list, err := s.api.MyRequests(c.UserContext(), currentIdentity(c).Token, status)
	if err != nil {
		if IsUnauthorized(err) {
			return s.sessionExpired(c)
		}
		addFlash(c, flashDanger, userMessage(err, "Ошибка загрузки заявок"))
		list = []dto.RequestResponse{}
	}
	return s.render(c, "client/my_requests", "Мои заявки", fiber.Map{
		"Requests": list,
		"Statuses": entity.KnownStatuses,
		"Status":   status,
	})
}

func (s *Server) myRequestCreateForm(c *fiber.Ctx) error {
	return s.render(c, "client/new_request", "Создание новой заявки", nil)
}

// myRequestCreate el client_id lo fija la API con el usuario del token.
func (s *Server) myRequestCreate(c *fiber.Ctx) error {
	id := currentIdentity(c)
	in := dto.ClientCreateRequest{
		StartDate:          strings.TrimSpace(c.FormValue("start_date")),
		ClimateTechType:    strings.TrimSpace(c.FormValue("climate_tech_type")),
		ClimateTechModel:   strings.TrimSpace(c.FormValue("climate_tech_model")),
		ProblemDescription: strings.TrimSpace(c.FormValue("problem_description")),
		RequestStatus:      string(entity.StatusNew),
		ClientID:           id.UserID,
	}
	if err := s.api.CreateMyRequest(c.UserContext(), id.Token, in); err != nil {
		if IsUnauthorized(err) {
			return s.sessionExpired(c)
		}
		addFlash(c, flashDanger, userMessage(err, "Ошибка создания заявки"))
		return s.render(c, "client/new_request", "Создание новой заявки", fiber.Map{"Form": in})
	}
	addFlash(c, flashSuccess, "Заявка успешно создана!")
	return c.Redirect("/my-requests")
}

func (s *Server) myRequestDetail(c *fiber.Ctx) error {
	requestID, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, token := c.UserContext(), currentIdentity(c).Token
	req, err := s.api.MyRequest(ctx, token, requestID)
	if err != nil {
		return s.apiFailure(c, err, "Заявка не найдена", "/my-requests")
	}
	comments, err := s.api.MyRequestComments(ctx, token, requestID)
	if err != nil {
		s.log.Warn().Err(err).Int64("request_id", requestID).Msg("comentarios de la solicitud del cliente")
		comments = []dto.CommentResponse{}
	}
	return s.render(c, "client/request_detail", fmt.Sprintf("Моя заявка #%d", requestID), fiber.Map{
		"R":        req,
		"Comments": comments,
	})
}
