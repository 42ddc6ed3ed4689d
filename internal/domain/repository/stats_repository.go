package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// RequestCounts totales de solicitudes.
type RequestCounts struct {
	Total     int64
	Completed int64
}

// GroupCount cantidad de solicitudes por clave (tipo de equipo o tipo de problema).
type GroupCount struct {
	Key   string
	Count int64
}

// StatsRepository vistas agregadas de solo lectura sobre requests.
type StatsRepository interface {
	Count(ctx context.Context) (RequestCounts, error)
	// AverageRepairDays promedio de días entre inicio y finalización de las solicitudes terminadas.
	AverageRepairDays(ctx context.Context) (decimal.Decimal, error)
	ByTechType(ctx context.Context) ([]GroupCount, error)
	ByProblemType(ctx context.Context) ([]GroupCount, error)
}

// SequenceRepairer realinea las secuencias de ids con el máximo almacenado.
type SequenceRepairer interface {
	RepairAll(ctx context.Context) error
}
