package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/application/usecase"
	"github.com/jhoicas/climate-service/pkg/logger"
)

// StatsHandler estadísticas agregadas de solicitudes.
type StatsHandler struct {
	uc  *usecase.StatsUseCase
	log *logger.Logger
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *usecase.StatsUseCase, log *logger.Logger) *StatsHandler {
	return &StatsHandler{uc: uc, log: log}
}

// Count godoc
// @Summary      Total y terminadas
// @Tags         stats
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountStatsResponse
// @Router       /requests/stats/count [get]
func (h *StatsHandler) Count(c *fiber.Ctx) error {
	out, err := h.uc.Count(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// AverageTime godoc
// @Summary      Tiempo medio de reparación (días)
// @Tags         stats
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AvgTimeResponse
// @Router       /requests/stats/avg-time [get]
func (h *StatsHandler) AverageTime(c *fiber.Ctx) error {
	out, err := h.uc.AverageTime(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ByTech godoc
// @Summary      Solicitudes por tipo de equipo
// @Tags         stats
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TechTypeCount
// @Router       /requests/stats/by-tech [get]
func (h *StatsHandler) ByTech(c *fiber.Ctx) error {
	out, err := h.uc.ByTech(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ByProblemType godoc
// @Summary      Solicitudes por tipo de problema
// @Tags         stats
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProblemTypeCount
// @Router       /requests/stats/by-problem-type [get]
func (h *StatsHandler) ByProblemType(c *fiber.Ctx) error {
	out, err := h.uc.ByProblemType(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
