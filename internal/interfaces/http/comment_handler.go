package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/application/usecase"
	"github.com/jhoicas/climate-service/pkg/logger"
)

const commentNotFound = "comentario no encontrado"

// CommentHandler maneja las peticiones HTTP para Comment.
type CommentHandler struct {
	uc  *usecase.CommentUseCase
	log *logger.Logger
}

// NewCommentHandler construye el handler.
func NewCommentHandler(uc *usecase.CommentUseCase, log *logger.Logger) *CommentHandler {
	return &CommentHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar comentarios
// @Tags         comments
// @Security     Bearer
// @Produce      json
// @Param        skip   query  int  false  "Desplazamiento"  default(0)
// @Param        limit  query  int  false  "Límite"          default(100)
// @Success      200    {array}  dto.CommentResponse
// @Router       /comments [get]
func (h *CommentHandler) List(c *fiber.Ctx) error {
	offset, limit := page(c)
	out, err := h.uc.List(c.UserContext(), offset, limit)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener comentario por ID
// @Tags         comments
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del comentario"
// @Success      200  {object}  dto.CommentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /comments/{id} [get]
func (h *CommentHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, commentNotFound)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear comentario
// @Tags         comments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCommentRequest  true  "message, request_id, master_id opcional"
// @Success      201   {object}  dto.CommentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /comments [post]
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCommentRequest
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
// @Summary      Actualizar comentario (parcial)
// @Tags         comments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                           true  "ID del comentario"
// @Param        body  body  dto.UpdateCommentRequest  true  "Solo los campos presentes se modifican"
// @Success      200   {object}  dto.CommentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /comments/{id} [put]
func (h *CommentHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	var in dto.UpdateCommentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, commentNotFound)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar comentario
// @Tags         comments
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del comentario"
// @Success      200  {object}  dto.CommentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Delete(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, commentNotFound)
	}
	return c.JSON(out)
}
