package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/climate-service/internal/domain"
	"github.com/jhoicas/climate-service/internal/infrastructure/metrics"
	"github.com/jhoicas/climate-service/pkg/logger"
)

func pkViolation(table string) error {
	return fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: table + "_pkey"})
}

func repairs(table, result string) float64 {
	return testutil.ToFloat64(metrics.SequenceRepairs.WithLabelValues(table, result))
}

// script devuelve los errores en orden; nil = intento exitoso.
func script(errs ...error) (func(context.Context) (int64, error), *int) {
	calls := 0
	return func(context.Context) (int64, error) {
		err := errs[calls]
		calls++
		if err != nil {
			return 0, err
		}
		return 31, nil
	}, &calls
}

func TestCreateWithRepair_FirstAttemptOK(t *testing.T) {
	attempt, calls := script(nil)
	repaired := false

	id, err := createWithRepair(context.Background(), logger.Nop(), "users", attempt,
		func(context.Context) error { repaired = true; return nil })

	require.NoError(t, err)
	assert.Equal(t, int64(31), id)
	assert.Equal(t, 1, *calls)
	assert.False(t, repaired)
}

func TestCreateWithRepair_RepairsOnceAndRetries(t *testing.T) {
	before := repairs("requests", metrics.RepairRepaired)
	attempt, calls := script(pkViolation("requests"), nil)
	repairCalls := 0

	id, err := createWithRepair(context.Background(), logger.Nop(), "requests", attempt,
		func(context.Context) error { repairCalls++; return nil })

	require.NoError(t, err)
	assert.Equal(t, int64(31), id)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, 1, repairCalls)
	assert.Equal(t, before+1, repairs("requests", metrics.RepairRepaired))
}

func TestCreateWithRepair_RetryFailsOnlyOnce(t *testing.T) {
	before := repairs("comments", metrics.RepairRetryFailed)
	attempt, calls := script(pkViolation("comments"), pkViolation("comments"))
	repairCalls := 0

	_, err := createWithRepair(context.Background(), logger.Nop(), "comments", attempt,
		func(context.Context) error { repairCalls++; return nil })

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCreateFailed)
	assert.Equal(t, 2, *calls, "un solo reintento")
	assert.Equal(t, 1, repairCalls)
	assert.Equal(t, before+1, repairs("comments", metrics.RepairRetryFailed))
}

func TestCreateWithRepair_RepairFails(t *testing.T) {
	before := repairs("users", metrics.RepairRepairFailed)
	attempt, calls := script(pkViolation("users"))
	boom := errors.New("setval: permission denied")

	_, err := createWithRepair(context.Background(), logger.Nop(), "users", attempt,
		func(context.Context) error { return boom })

	assert.ErrorIs(t, err, domain.ErrCreateFailed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, before+1, repairs("users", metrics.RepairRepairFailed))
}

func TestCreateWithRepair_OtherUniqueIsDuplicate(t *testing.T) {
	loginTaken := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_login_key"}
	attempt, calls := script(loginTaken)
	repaired := false

	_, err := createWithRepair(context.Background(), logger.Nop(), "users", attempt,
		func(context.Context) error { repaired = true; return nil })

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "users_login_key")
	assert.Equal(t, 1, *calls)
	assert.False(t, repaired)
}

func TestCreateWithRepair_PKOfAnotherTableIsNotRepaired(t *testing.T) {
	attempt, _ := script(pkViolation("users"))
	repaired := false

	_, err := createWithRepair(context.Background(), logger.Nop(), "comments", attempt,
		func(context.Context) error { repaired = true; return nil })

	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.False(t, repaired)
}

func TestTranslateWriteError(t *testing.T) {
	fk := &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "requests_client_id_fkey"}
	assert.ErrorIs(t, translateWriteError(fk), domain.ErrInvalidInput)

	plain := errors.New("conexión perdida")
	assert.Equal(t, plain, translateWriteError(plain))
}

func TestSetvalSQL(t *testing.T) {
	sql := requestsTable.setvalSQL()
	assert.Contains(t, sql, "pg_get_serial_sequence('climate_service.requests', 'request_id')")
	assert.Contains(t, sql, "MAX(request_id)")
	assert.Contains(t, sql, "+ 1, false")
}

func TestClampPage(t *testing.T) {
	o, l := clampPage(-5, 0)
	assert.Equal(t, 0, o)
	assert.Equal(t, 100, l)
}
