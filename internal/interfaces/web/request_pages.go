package web

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/domain/entity"
)

// searchParams criterios de búsqueda que se reenvían a la API.
var searchParams = []string{
	"request_id", "request_status", "climate_tech_type", "climate_tech_model", "client_id", "master_id", "q",
}

func (s *Server) requestsList(c *fiber.Ctx) error {
	list, err := s.api.ListRequests(c.UserContext(), currentIdentity(c).Token)
	if err != nil {
		if IsUnauthorized(err) {
			return s.sessionExpired(c)
		}
		addFlash(c, flashDanger, userMessage(err, "Ошибка загрузки заявок"))
		list = []dto.RequestResponse{}
	}
	return s.render(c, "requests/list", "Список заявок", fiber.Map{
		"Requests": list,
		"Statuses": entity.KnownStatuses,
	})
}

func (s *Server) requestsSearch(c *fiber.Ctx) error {
	query := url.Values{}
	form := make(map[string]string, len(searchParams))
	for _, key := range searchParams {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			query.Set(key, v)
			form[key] = v
		}
	}
	list, err := s.api.SearchRequests(c.UserContext(), currentIdentity(c).Token, query)
	switch {
	case IsUnauthorized(err):
		return s.sessionExpired(c)
	case err != nil:
		addFlash(c, flashWarning, userMessage(err, "Ошибка поиска"))
		list = []dto.RequestResponse{}
	case len(list) == 0:
		addFlash(c, flashInfo, "Поиск не дал результатов")
	}
	return s.render(c, "requests/list", "Результаты поиска", fiber.Map{
		"Requests": list,
		"Statuses": entity.KnownStatuses,
		"Search":   form,
	})
}

func (s *Server) requestCreateForm(c *fiber.Ctx) error {
	return s.render(c, "requests/create", "Создание новой заявки", nil)
}

func (s *Server) requestCreate(c *fiber.Ctx) error {
	in := dto.CreateRequestRequest{
		StartDate:          strings.TrimSpace(c.FormValue("start_date")),
		ClimateTechType:    strings.TrimSpace(c.FormValue("climate_tech_type")),
		ClimateTechModel:   strings.TrimSpace(c.FormValue("climate_tech_model")),
		ProblemDescription: strings.TrimSpace(c.FormValue("problem_description")),
		RequestStatus:      string(entity.StatusNew),
	}
	clientID, err := strconv.ParseInt(strings.TrimSpace(c.FormValue("client_id")), 10, 64)
	if err != nil || clientID <= 0 {
		addFlash(c, flashDanger, "Некорректный ID клиента")
		return s.render(c, "requests/create", "Создание новой заявки", fiber.Map{"Form": in})
	}
	in.ClientID = clientID

	if err := s.api.CreateRequest(c.UserContext(), currentIdentity(c).Token, in); err != nil {
		if IsUnauthorized(err) {
			return s.sessionExpired(c)
		}
		addFlash(c, flashDanger, userMessage(err, "Ошибка создания заявки"))
		return s.render(c, "requests/create", "Создание новой заявки", fiber.Map{"Form": in})
	}
	addFlash(c, flashSuccess, "Заявка успешно создана!")
	return c.Redirect("/requests")
}

func (s *Server) requestDetail(c *fiber.Ctx) error {
	requestID, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, token := c.UserContext(), currentIdentity(c).Token
	req, err := s.api.GetRequest(ctx, token, requestID)
	if err != nil {
		return s.apiFailure(c, err, "Заявка не найдена", "/requests")
	}
	comments, err := s.api.RequestComments(ctx, token, requestID)
	if err != nil {
		s.log.Warn().Err(err).Int64("request_id", requestID).Msg("comentarios de la solicitud")
		comments = []dto.CommentResponse{}
	}
	return s.render(c, "requests/detail", fmt.Sprintf("Заявка #%d", requestID), fiber.Map{
		"R":        req,
		"Comments": comments,
		"Statuses": entity.KnownStatuses,
	})
}

// requestEdit envía solo los campos no vacíos del formulario; un formulario vacío no llama a la API.
func (s *Server) requestEdit(c *fiber.Ctx) error {
	requestID, err := pathID(c)
	if err != nil {
		return err
	}
	back := fmt.Sprintf("/requests/%d", requestID)

	fields := make(map[string]any)
	for _, key := range []string{"request_status", "completion_date", "repair_parts"} {
		if v := strings.TrimSpace(c.FormValue(key)); v != "" {
			fields[key] = v
		}
	}
	if v := strings.TrimSpace(c.FormValue("master_id")); v != "" {
		masterID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || masterID <= 0 {
			addFlash(c, flashDanger, "Некорректный ID специалиста")
			return c.Redirect(back)
		}
		fields["master_id"] = masterID
	}
	if len(fields) == 0 {
		return c.Redirect(back)
	}
	if err := s.api.UpdateRequest(c.UserContext(), currentIdentity(c).Token, requestID, fields); err != nil {
		return s.apiFailure(c, err, "Ошибка обновления заявки", back)
	}
	addFlash(c, flashSuccess, "Заявка успешно обновлена!")
	return c.Redirect(back)
}

func (s *Server) requestAssign(c *fiber.Ctx) error {
	requestID, err := pathID(c)
	if err != nil {
		return err
	}
	back := fmt.Sprintf("/requests/%d", requestID)
	masterID, err := strconv.ParseInt(strings.TrimSpace(c.FormValue("master_id")), 10, 64)
	if err != nil || masterID <= 0 {
		addFlash(c, flashDanger, "Некорректный ID специалиста")
		return c.Redirect(back)
	}
	if err := s.api.AssignRequest(c.UserContext(), currentIdentity(c).Token, requestID, masterID); err != nil {
		return s.apiFailure(c, err, "Ошибка назначения специалиста", back)
	}
	addFlash(c, flashSuccess, "Специалист успешно назначен!")
	return c.Redirect(back)
}

func (s *Server) requestExtend(c *fiber.Ctx) error {
	requestID, err := pathID(c)
	if err != nil {
		return err
	}
	back := fmt.Sprintf("/requests/%d", requestID)
	in := dto.ExtendRequest{
		NewCompletionDate: strings.TrimSpace(c.FormValue("new_completion_date")),
		Reason:            strings.TrimSpace(c.FormValue("reason")),
	}
	if err := s.api.ExtendRequest(c.UserContext(), currentIdentity(c).Token, requestID, in); err != nil {
		return s.apiFailure(c, err, "Ошибка продления срока", back)
	}
	addFlash(c, flashSuccess, "Срок выполнения успешно продлён!")
	return c.Redirect(back)
}

func (s *Server) requestDelete(c *fiber.Ctx) error {
	requestID, err := pathID(c)
	if err != nil {
		return err
	}
	back := fmt.Sprintf("/requests/%d", requestID)
	if c.FormValue("confirm") != "yes" {
		addFlash(c, flashWarning, msgDeleteCanceled)
		return c.Redirect(back)
	}
	if err := s.api.DeleteRequest(c.UserContext(), currentIdentity(c).Token, requestID); err != nil {
		return s.apiFailure(c, err, "Ошибка удаления заявки", back)
	}
	addFlash(c, flashSuccess, "Заявка успешно удалена!")
	return c.Redirect("/requests")
}

func (s *Server) requestPDF(c *fiber.Ctx) error {
	requestID, err := pathID(c)
	if err != nil {
		return err
	}
	pdf, err := s.api.WorkOrderPDF(c.UserContext(), currentIdentity(c).Token, requestID)
	if err != nil {
		return s.apiFailure(c, err, "Ошибка формирования наряда", fmt.Sprintf("/requests/%d", requestID))
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="work-order-%d.pdf"`, requestID))
	return c.Send(pdf)
}
