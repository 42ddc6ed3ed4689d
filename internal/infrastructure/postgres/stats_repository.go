package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/climate-service/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo vistas agregadas sobre requests.
type StatsRepo struct {
	pool *pgxpool.Pool
}

// NewStatsRepository construye el repositorio de estadísticas.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// Count total de solicitudes y terminadas (con fecha de finalización).
func (r *StatsRepo) Count(ctx context.Context) (repository.RequestCounts, error) {
	var out repository.RequestCounts
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(completion_date) FROM climate_service.requests`,
	).Scan(&out.Total, &out.Completed)
	if err != nil {
		return out, fmt.Errorf("count requests: %w", err)
	}
	return out, nil
}

// AverageRepairDays DATE - DATE da días enteros; el promedio se redondea a un decimal. Sin terminadas = 0.
func (r *StatsRepo) AverageRepairDays(ctx context.Context) (decimal.Decimal, error) {
	var avg decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(ROUND(AVG(completion_date - start_date)::numeric, 1), 0)
		FROM climate_service.requests
		WHERE completion_date IS NOT NULL`,
	).Scan(&avg)
	if err != nil {
		return decimal.Zero, fmt.Errorf("average repair days: %w", err)
	}
	return avg, nil
}

// ByTechType solicitudes por tipo de equipo.
func (r *StatsRepo) ByTechType(ctx context.Context) ([]repository.GroupCount, error) {
	return r.groupCounts(ctx, "count by tech type", `
		SELECT climate_tech_type, COUNT(*) FROM climate_service.requests
		GROUP BY climate_tech_type
		ORDER BY COUNT(*) DESC, climate_tech_type`)
}

// ByProblemType solicitudes por descripción de problema normalizada (minúsculas, sin espacios en los extremos).
func (r *StatsRepo) ByProblemType(ctx context.Context) ([]repository.GroupCount, error) {
	return r.groupCounts(ctx, "count by problem type", `
		SELECT lower(btrim(problem_description)) AS problem_type, COUNT(*) FROM climate_service.requests
		GROUP BY problem_type
		ORDER BY COUNT(*) DESC, problem_type`)
}

func (r *StatsRepo) groupCounts(ctx context.Context, op, sql string) ([]repository.GroupCount, error) {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	out := make([]repository.GroupCount, 0)
	for rows.Next() {
		var g repository.GroupCount
		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
