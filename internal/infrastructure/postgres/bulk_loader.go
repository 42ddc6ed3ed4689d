package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/climate-service/internal/domain/entity"
)

// Dataset contenido de una carga masiva con ids explícitos.
type Dataset struct {
	Users    []*entity.User
	Requests []*entity.Request
	Comments []*entity.Comment
}

// LoadResult filas copiadas por tabla.
type LoadResult struct {
	Users    int64
	Requests int64
	Comments int64
}

// BulkLoader carga masiva con COPY. Los ids vienen del archivo, por lo que las secuencias
// quedan atrasadas hasta el RepairAll final.
type BulkLoader struct {
	tx *TxRunner
}

// NewBulkLoader construye el cargador.
func NewBulkLoader(tx *TxRunner) *BulkLoader {
	return &BulkLoader{tx: tx}
}

// Load copia usuarios, solicitudes y comentarios (en ese orden, por las FK) en una sola
// transacción y después realinea las secuencias.
func (l *BulkLoader) Load(ctx context.Context, ds Dataset) (LoadResult, error) {
	var res LoadResult
	err := l.tx.Run(ctx, func(q Querier) error {
		tx, ok := q.(pgx.Tx)
		if !ok {
			return fmt.Errorf("bulk load: se esperaba una transacción pgx")
		}
		var err error
		if res.Users, err = tx.CopyFrom(ctx, pgx.Identifier{Schema, usersTable.Name},
			[]string{"user_id", "fio", "phone", "login", "password", "user_type"},
			pgx.CopyFromSlice(len(ds.Users), func(i int) ([]any, error) {
				u := ds.Users[i]
				return []any{u.ID, u.FIO, u.Phone, u.Login, u.PasswordHash, string(u.Role)}, nil
			})); err != nil {
			return fmt.Errorf("copy users: %w", translateWriteError(err))
		}
		if res.Requests, err = tx.CopyFrom(ctx, pgx.Identifier{Schema, requestsTable.Name},
			[]string{"request_id", "start_date", "climate_tech_type", "climate_tech_model", "problem_description",
				"request_status", "completion_date", "repair_parts", "master_id", "client_id"},
			pgx.CopyFromSlice(len(ds.Requests), func(i int) ([]any, error) {
				r := ds.Requests[i]
				return []any{r.ID, r.StartDate, r.TechType, r.TechModel, r.ProblemDescription,
					string(r.Status), dateOrNil(r.CompletionDate), r.RepairParts, r.MasterID, r.ClientID}, nil
			})); err != nil {
			return fmt.Errorf("copy requests: %w", translateWriteError(err))
		}
		if res.Comments, err = tx.CopyFrom(ctx, pgx.Identifier{Schema, commentsTable.Name},
			[]string{"comment_id", "message", "master_id", "request_id"},
			pgx.CopyFromSlice(len(ds.Comments), func(i int) ([]any, error) {
				c := ds.Comments[i]
				return []any{c.ID, c.Message, c.MasterID, c.RequestID}, nil
			})); err != nil {
			return fmt.Errorf("copy comments: %w", translateWriteError(err))
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	if err := l.tx.RepairAll(ctx); err != nil {
		return res, fmt.Errorf("bulk load: reparar secuencias: %w", err)
	}
	return res, nil
}
