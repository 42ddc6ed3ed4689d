package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/application/usecase"
	"github.com/jhoicas/climate-service/pkg/logger"
)

// ClientHandler autoservicio del cliente. El client_id sale siempre del token.
type ClientHandler struct {
	uc  *usecase.ClientUseCase
	log *logger.Logger
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *usecase.ClientUseCase, log *logger.Logger) *ClientHandler {
	return &ClientHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Mis solicitudes
// @Tags         client
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        skip    query  int     false  "Desplazamiento"  default(0)
// @Param        limit   query  int     false  "Límite"          default(100)
// @Success      200     {array}  dto.RequestResponse
// @Router       /client/my-requests [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	offset, limit := page(c)
	out, err := h.uc.List(c.UserContext(), GetUserID(c), c.Query("status"), offset, limit)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear solicitud propia
// @Description  client_id siempre es el del usuario autenticado; estado y fecha de inicio por defecto.
// @Tags         client
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClientCreateRequest  true  "Datos de la solicitud"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /client/my-requests [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.ClientCreateRequest
	if !bind(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud propia
// @Tags         client
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /client/my-requests/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, requestNotFound)
	}
	return c.JSON(out)
}

// Comments godoc
// @Summary      Comentarios de una solicitud propia
// @Tags         client
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      200  {array}   dto.CommentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /client/my-requests/{id}/comments [get]
func (h *ClientHandler) Comments(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Comments(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
