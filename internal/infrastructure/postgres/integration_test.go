//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/climate-service/internal/domain"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/jhoicas/climate-service/internal/domain/repository"
	"github.com/jhoicas/climate-service/pkg/config"
	"github.com/jhoicas/climate-service/pkg/logger"
	"github.com/jhoicas/climate-service/pkg/optional"
)

// setupDB levanta PostgreSQL en un contenedor y aplica las migraciones.
// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/...
func setupDB(t *testing.T) (*pgxpool.Pool, *TxRunner) {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16",
		tcpostgres.WithDatabase("climate_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(pool))
	return pool, NewTxRunner(pool, logger.Nop())
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestIntegration_Repositories(t *testing.T) {
	pool, tx := setupDB(t)
	ctx := context.Background()
	users := NewUserRepository(pool, tx)
	requests := NewRequestRepository(pool, tx)
	comments := NewCommentRepository(pool, tx)

	client, err := users.Create(ctx, &entity.User{FIO: "Ильин Александр", Login: "login7", PasswordHash: "h", Role: entity.RoleCustomer})
	require.NoError(t, err)
	master, err := users.Create(ctx, &entity.User{FIO: "Кудрявцева Ева", Login: "login2", PasswordHash: "h", Role: entity.RoleSpecialist})
	require.NoError(t, err)

	_, err = users.Create(ctx, &entity.User{FIO: "Дубль", Login: "login7", PasswordHash: "h", Role: entity.RoleOperator})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	req, err := requests.Create(ctx, &entity.Request{
		StartDate: day(2023, 6, 6), TechType: "Кондиционер", TechModel: "TCL TAC-12CHSA",
		ProblemDescription: "Не охлаждает воздух", Status: entity.StatusNew,
		MasterID: &master.ID, ClientID: client.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, day(2023, 6, 6), req.StartDate)

	_, err = requests.Create(ctx, &entity.Request{
		StartDate: day(2023, 6, 6), TechType: "x", TechModel: "x", ProblemDescription: "x",
		Status: entity.StatusNew, ClientID: 9999,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := requests.Update(ctx, req.ID, entity.RequestPatch{
		Status:         optional.Of(entity.StatusReadyForPickup),
		CompletionDate: optional.Of(day(2023, 6, 10)),
		RepairParts:    optional.Of("Конденсатор"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReadyForPickup, updated.Status)
	require.NotNil(t, updated.CompletionDate)
	assert.Equal(t, day(2023, 6, 10), *updated.CompletionDate)

	missing, err := requests.Update(ctx, 424242, entity.RequestPatch{Status: optional.Of(entity.StatusNew)})
	require.NoError(t, err)
	assert.Nil(t, missing)

	found, err := requests.Search(ctx, repository.RequestFilter{TechType: "кондиц", Limit: 10})
	require.NoError(t, err)
	require.Len(t, found, 1)

	own, err := requests.GetForClient(ctx, req.ID, master.ID)
	require.NoError(t, err)
	assert.Nil(t, own, "una solicitud ajena no se devuelve")

	_, err = comments.Create(ctx, &entity.Comment{Message: "Интересная поломка", MasterID: master.ID, RequestID: req.ID})
	require.NoError(t, err)

	stats := NewStatsRepository(pool)
	counts, err := stats.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.RequestCounts{Total: 1, Completed: 1}, counts)
	avg, err := stats.AverageRepairDays(ctx)
	require.NoError(t, err)
	assert.True(t, avg.Equal(decimal.NewFromInt(4)), avg.String())

	// borrar al especialista anula master_id y elimina sus comentarios
	_, err = users.Delete(ctx, master.ID)
	require.NoError(t, err)
	after, err := requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Nil(t, after.MasterID)
	list, err := comments.ListByRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// borrar al cliente elimina sus solicitudes
	_, err = users.Delete(ctx, client.ID)
	require.NoError(t, err)
	gone, err := requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestIntegration_SequenceRepairOnCreate(t *testing.T) {
	pool, tx := setupDB(t)
	ctx := context.Background()
	users := NewUserRepository(pool, tx)

	// filas con ids explícitos: la secuencia sigue en 1
	_, err := pool.Exec(ctx, `INSERT INTO climate_service.users (user_id, fio, login, password, user_type)
		VALUES (1, 'a', 'login1', 'h', 'Менеджер'), (2, 'b', 'login2', 'h', 'Оператор')`)
	require.NoError(t, err)

	u, err := users.Create(ctx, &entity.User{FIO: "Новый", Login: "login3", PasswordHash: "h", Role: entity.RoleOperator})
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)

	next, err := users.Create(ctx, &entity.User{FIO: "Otro", Login: "login4", PasswordHash: "h", Role: entity.RoleOperator})
	require.NoError(t, err)
	assert.Equal(t, int64(4), next.ID)
}

func TestIntegration_BulkLoad(t *testing.T) {
	pool, tx := setupDB(t)
	ctx := context.Background()

	parts := "Мембрана"
	master := int64(2)
	res, err := NewBulkLoader(tx).Load(ctx, Dataset{
		Users: []*entity.User{
			{ID: 1, FIO: "Широков", Login: "login1", PasswordHash: "h", Role: entity.RoleManager},
			{ID: 2, FIO: "Кудрявцева", Login: "login2", PasswordHash: "h", Role: entity.RoleSpecialist},
			{ID: 7, FIO: "Ильин", Login: "login7", PasswordHash: "h", Role: entity.RoleCustomer},
		},
		Requests: []*entity.Request{
			{ID: 5, StartDate: day(2023, 5, 28), TechType: "Увлажнитель воздуха", TechModel: "Electrolux",
				ProblemDescription: "Не работает", Status: entity.StatusReadyForPickup,
				RepairParts: &parts, MasterID: &master, ClientID: 7},
		},
		Comments: []*entity.Comment{{ID: 3, Message: "Будем разбираться!", MasterID: 2, RequestID: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Users: 3, Requests: 1, Comments: 1}, res)

	u, err := NewUserRepository(pool, tx).Create(ctx, &entity.User{FIO: "Nuevo", Login: "login8", PasswordHash: "h", Role: entity.RoleOperator})
	require.NoError(t, err)
	assert.Equal(t, int64(8), u.ID, "la secuencia queda realineada tras la carga")

	r, err := NewRequestRepository(pool, tx).Create(ctx, &entity.Request{
		StartDate: day(2024, 1, 1), TechType: "x", TechModel: "x", ProblemDescription: "x",
		Status: entity.StatusNew, ClientID: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), r.ID)
}
