package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/application/usecase"
	"github.com/jhoicas/climate-service/pkg/logger"
)

const requestNotFound = "solicitud no encontrada"

// RequestHandler maneja las peticiones HTTP del personal sobre solicitudes.
type RequestHandler struct {
	uc        *usecase.RequestUseCase
	workOrder *usecase.WorkOrderUseCase
	log       *logger.Logger
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *usecase.RequestUseCase, workOrder *usecase.WorkOrderUseCase, log *logger.Logger) *RequestHandler {
	return &RequestHandler{uc: uc, workOrder: workOrder, log: log}
}

// List godoc
// @Summary      Listar solicitudes
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        skip   query  int  false  "Desplazamiento"  default(0)
// @Param        limit  query  int  false  "Límite"          default(100)
// @Success      200    {array}  dto.RequestResponse
// @Router       /requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	offset, limit := page(c)
	out, err := h.uc.List(c.UserContext(), offset, limit)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar solicitudes
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        request_id          query  int     false  "ID exacto"
// @Param        request_status      query  string  false  "Estado exacto"
// @Param        climate_tech_type   query  string  false  "Tipo de equipo (parcial)"
// @Param        climate_tech_model  query  string  false  "Modelo (parcial)"
// @Param        client_id           query  int     false  "Cliente"
// @Param        master_id           query  int     false  "Especialista"
// @Param        q                   query  string  false  "Texto en la descripción del problema"
// @Success      200  {array}  dto.RequestResponse
// @Router       /requests/search [get]
func (h *RequestHandler) Search(c *fiber.Ctx) error {
	var q dto.SearchRequestsQuery
	if err := c.QueryParser(&q); err != nil {
		return validationError(c, "parámetros de búsqueda inválidos")
	}
	out, err := h.uc.Search(c.UserContext(), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud por ID
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /requests/{id} [get]
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, requestNotFound)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear solicitud
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "Datos de la solicitud"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if !bind(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar solicitud (parcial)
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                           true  "ID de la solicitud"
// @Param        body  body  dto.UpdateRequestRequest  true  "Solo los campos presentes se modifican"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /requests/{id} [put]
func (h *RequestHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	var in dto.UpdateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, requestNotFound)
	}
	return c.JSON(out)
}

// Assign godoc
// @Summary      Asignar especialista
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "ID de la solicitud"
// @Param        body  body  dto.AssignRequest  true  "master_id"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /requests/{id}/assign [post]
func (h *RequestHandler) Assign(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	var in dto.AssignRequest
	if !bind(c, &in) {
		return nil
	}
	out, err := h.uc.Assign(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, requestNotFound)
	}
	return c.JSON(out)
}

// Extend godoc
// @Summary      Prorrogar plazo
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "ID de la solicitud"
// @Param        body  body  dto.ExtendRequest  true  "new_completion_date, reason"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /requests/{id}/extend [post]
func (h *RequestHandler) Extend(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	var in dto.ExtendRequest
	if !bind(c, &in) {
		return nil
	}
	out, err := h.uc.Extend(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, requestNotFound)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /requests/{id} [delete]
func (h *RequestHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Delete(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, requestNotFound)
	}
	return c.JSON(out)
}

// Comments godoc
// @Summary      Comentarios de una solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      200  {array}   dto.CommentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /requests/{id}/comments [get]
func (h *RequestHandler) Comments(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Comments(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// WorkOrderPDF godoc
// @Summary      Hoja de trabajo en PDF
// @Tags         requests
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /requests/{id}/pdf [get]
func (h *RequestHandler) WorkOrderPDF(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	pdf, filename, err := h.workOrder.Download(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(pdf)
}
