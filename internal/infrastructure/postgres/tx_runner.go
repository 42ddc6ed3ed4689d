package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/climate-service/internal/domain"
	"github.com/jhoicas/climate-service/internal/domain/repository"
	"github.com/jhoicas/climate-service/internal/infrastructure/metrics"
	"github.com/jhoicas/climate-service/pkg/logger"
)

var _ repository.SequenceRepairer = (*TxRunner)(nil)

// serialTable tabla con clave primaria SERIAL cuya secuencia puede quedar atrasada tras cargas manuales.
type serialTable struct {
	Name     string
	IDColumn string
}

var (
	usersTable    = serialTable{Name: "users", IDColumn: "user_id"}
	requestsTable = serialTable{Name: "requests", IDColumn: "request_id"}
	commentsTable = serialTable{Name: "comments", IDColumn: "comment_id"}

	serialTables = []serialTable{usersTable, requestsTable, commentsTable}
)

func (t serialTable) qualified() string {
	return Schema + "." + t.Name
}

// setvalSQL lleva la secuencia a MAX(id)+1; el siguiente nextval devuelve exactamente ese valor.
func (t serialTable) setvalSQL() string {
	return fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%[1]s', '%[2]s'), COALESCE((SELECT MAX(%[2]s) FROM %[1]s), 0) + 1, false)`,
		t.qualified(), t.IDColumn,
	)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, log *logger.Logger) *TxRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &TxRunner{pool: pool, log: log.Component("postgres")}
}

// Run inicia una transacción, ejecuta fn con la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// repairSequence realinea la secuencia de la tabla en su propia transacción.
func (r *TxRunner) repairSequence(ctx context.Context, t serialTable) error {
	return r.Run(ctx, func(q Querier) error {
		var next int64
		if err := q.QueryRow(ctx, t.setvalSQL()).Scan(&next); err != nil {
			return fmt.Errorf("setval %s: %w", t.Name, err)
		}
		r.log.Warn().Str("table", t.Name).Int64("next_id", next).Msg("secuencia de ids realineada")
		return nil
	})
}

// RepairAll realinea las secuencias de todas las tablas (después de una carga masiva).
func (r *TxRunner) RepairAll(ctx context.Context) error {
	for _, t := range serialTables {
		if err := r.repairSequence(ctx, t); err != nil {
			return err
		}
		metrics.SequenceRepairs.WithLabelValues(t.Name, metrics.RepairBulk).Inc()
	}
	return nil
}

// insertWithRepair ejecuta insert en su propia transacción. Si falla por colisión de la clave
// primaria, repara la secuencia en otra transacción y reintenta una sola vez.
func insertWithRepair[T any](ctx context.Context, r *TxRunner, t serialTable, insert func(ctx context.Context, q Querier) (T, error)) (T, error) {
	attempt := func(ctx context.Context) (T, error) {
		var out T
		err := r.Run(ctx, func(q Querier) error {
			var err error
			out, err = insert(ctx, q)
			return err
		})
		return out, err
	}
	repair := func(ctx context.Context) error {
		return r.repairSequence(ctx, t)
	}
	return createWithRepair(ctx, r.log, t.Name, attempt, repair)
}

// createWithRepair lógica de reparación separada de la base de datos para poder probarla.
// Otras violaciones de unicidad (login) se devuelven como domain.ErrDuplicate.
func createWithRepair[T any](
	ctx context.Context,
	log *logger.Logger,
	table string,
	attempt func(ctx context.Context) (T, error),
	repair func(ctx context.Context) error,
) (T, error) {
	var zero T

	out, err := attempt(ctx)
	if err == nil {
		return out, nil
	}
	if !isPrimaryKeyViolation(err, table) {
		return zero, translateWriteError(err)
	}

	log.Warn().Err(err).Str("table", table).Msg("colisión de clave primaria, reparando secuencia")

	if rerr := repair(ctx); rerr != nil {
		metrics.SequenceRepairs.WithLabelValues(table, metrics.RepairRepairFailed).Inc()
		log.Error().Err(rerr).Str("table", table).Msg("reparación de secuencia fallida")
		return zero, fmt.Errorf("%w: reparar secuencia de %s: %w", domain.ErrCreateFailed, table, rerr)
	}

	out, err = attempt(ctx)
	if err != nil {
		metrics.SequenceRepairs.WithLabelValues(table, metrics.RepairRetryFailed).Inc()
		log.Error().Err(err).Str("table", table).Msg("reintento de inserción fallido")
		return zero, fmt.Errorf("%w: %w", domain.ErrCreateFailed, err)
	}
	metrics.SequenceRepairs.WithLabelValues(table, metrics.RepairRepaired).Inc()
	return out, nil
}

// translateWriteError traduce errores de PostgreSQL a errores de dominio.
func translateWriteError(err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, constraintName(err))
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: referencia inexistente (%s)", domain.ErrInvalidInput, constraintName(err))
	default:
		return err
	}
}
