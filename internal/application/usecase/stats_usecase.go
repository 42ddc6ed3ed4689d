package usecase

import (
	"context"

	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/domain/repository"
)

// StatsUseCase estadísticas de solicitudes para el personal.
type StatsUseCase struct {
	repo repository.StatsRepository
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(repo repository.StatsRepository) *StatsUseCase {
	return &StatsUseCase{repo: repo}
}

// Count total y terminadas.
func (uc *StatsUseCase) Count(ctx context.Context) (*dto.CountStatsResponse, error) {
	c, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CountStatsResponse{TotalRequests: c.Total, CompletedRequests: c.Completed}, nil
}

// AverageTime promedio de días de reparación (un decimal).
func (uc *StatsUseCase) AverageTime(ctx context.Context) (*dto.AvgTimeResponse, error) {
	avg, err := uc.repo.AverageRepairDays(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AvgTimeResponse{AvgRepairDays: avg.Round(1).InexactFloat64()}, nil
}

// ByTech solicitudes por tipo de equipo.
func (uc *StatsUseCase) ByTech(ctx context.Context) ([]dto.TechTypeCount, error) {
	groups, err := uc.repo.ByTechType(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TechTypeCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.TechTypeCount{TechType: g.Key, Count: g.Count})
	}
	return out, nil
}

// ByProblemType solicitudes por tipo de problema.
func (uc *StatsUseCase) ByProblemType(ctx context.Context) ([]dto.ProblemTypeCount, error) {
	groups, err := uc.repo.ByProblemType(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProblemTypeCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.ProblemTypeCount{ProblemType: g.Key, Count: g.Count})
	}
	return out, nil
}
