package web

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// homeStats bloque de estadísticas de la página principal y de /statistics.
type homeStats struct {
	Count     dto.CountStatsResponse
	Avg       dto.AvgTimeResponse
	ByTech    []dto.TechTypeCount
	ByProblem []dto.ProblemTypeCount
}

// clientStats estadísticas de un cliente calculadas sobre sus propias solicitudes.
// Completada = tiene fecha de finalización; el promedio usa solo fechas válidas.
func clientStats(list []dto.RequestResponse) homeStats {
	st := homeStats{ByTech: []dto.TechTypeCount{}, ByProblem: []dto.ProblemTypeCount{}}
	st.Count.TotalRequests = int64(len(list))

	byTech := make(map[string]int64)
	var order []string
	var totalDays, counted int64
	for _, r := range list {
		tech := r.ClimateTechType
		if tech == "" {
			tech = "Неизвестно"
		}
		if _, seen := byTech[tech]; !seen {
			order = append(order, tech)
		}
		byTech[tech]++

		if r.CompletionDate == nil {
			continue
		}
		st.Count.CompletedRequests++
		start, err := dto.ParseDate(r.StartDate)
		if err != nil {
			continue
		}
		end, err := dto.ParseDate(*r.CompletionDate)
		if err != nil {
			continue
		}
		totalDays += int64(end.Sub(start) / (24 * time.Hour))
		counted++
	}
	if counted > 0 {
		avg, _ := decimal.NewFromInt(totalDays).DivRound(decimal.NewFromInt(counted), 1).Float64()
		st.Avg.AvgRepairDays = avg
	}
	sort.SliceStable(order, func(i, j int) bool { return byTech[order[i]] > byTech[order[j]] })
	for _, tech := range order {
		st.ByTech = append(st.ByTech, dto.TechTypeCount{TechType: tech, Count: byTech[tech]})
	}
	return st
}

// staffStats consulta los cuatro endpoints; un fallo deja ese bloque vacío.
// Un 401 se devuelve para cerrar la sesión.
func (s *Server) staffStats(ctx context.Context, token string) (homeStats, error) {
	st := homeStats{ByTech: []dto.TechTypeCount{}, ByProblem: []dto.ProblemTypeCount{}}
	count, err := s.api.StatsCount(ctx, token)
	if IsUnauthorized(err) {
		return st, err
	}
	if err == nil {
		st.Count = *count
	}
	if avg, err := s.api.StatsAvgTime(ctx, token); err == nil {
		st.Avg = *avg
	}
	if byTech, err := s.api.StatsByTech(ctx, token); err == nil {
		st.ByTech = byTech
	}
	if byProblem, err := s.api.StatsByProblemType(ctx, token); err == nil {
		st.ByProblem = byProblem
	}
	return st, nil
}

func (s *Server) index(c *fiber.Ctx) error {
	id := currentIdentity(c)
	if !id.LoggedIn() {
		return s.render(c, "index", "Главная - Система учета заявок", nil)
	}

	var stats homeStats
	if id.Role == entity.RoleCustomer {
		list, err := s.api.MyRequests(c.UserContext(), id.Token, "")
		if IsUnauthorized(err) {
			return s.sessionExpired(c)
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("solicitudes del cliente para estadísticas")
		}
		stats = clientStats(list)
	} else {
		var err error
		stats, err = s.staffStats(c.UserContext(), id.Token)
		if err != nil {
			return s.sessionExpired(c)
		}
	}
	return s.render(c, "index", "Главная - Система учета заявок", fiber.Map{"Stats": stats})
}

func (s *Server) statistics(c *fiber.Ctx) error {
	id := currentIdentity(c)
	if id.Role == entity.RoleCustomer {
		return s.render(c, "statistics", "Статистика", nil)
	}
	stats, err := s.staffStats(c.UserContext(), id.Token)
	if err != nil {
		return s.sessionExpired(c)
	}
	return s.render(c, "statistics", "Статистика", fiber.Map{"Stats": stats})
}
