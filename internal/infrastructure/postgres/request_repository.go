package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/jhoicas/climate-service/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

const requestColumns = `request_id, start_date, climate_tech_type, climate_tech_model, problem_description,
	request_status, completion_date, repair_parts, master_id, client_id`

// RequestRepo implementación del puerto RequestRepository sobre PostgreSQL.
type RequestRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewRequestRepository construye el adaptador de persistencia para solicitudes.
func NewRequestRepository(pool *pgxpool.Pool, tx *TxRunner) *RequestRepo {
	return &RequestRepo{pool: pool, tx: tx}
}

func scanRequest(row scanner) (*entity.Request, error) {
	var (
		r      entity.Request
		status string
	)
	err := row.Scan(
		&r.ID, &r.StartDate, &r.TechType, &r.TechModel, &r.ProblemDescription,
		&status, &r.CompletionDate, &r.RepairParts, &r.MasterID, &r.ClientID,
	)
	if err != nil {
		return nil, err
	}
	r.Status = entity.RequestStatus(status)
	return &r, nil
}

func oneRequest(row pgx.Row, op string) (*entity.Request, error) {
	r, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

func collectRequests(rows pgx.Rows, op string) ([]*entity.Request, error) {
	defer rows.Close()
	list := make([]*entity.Request, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// List lista solicitudes con paginación.
func (r *RequestRepo) List(ctx context.Context, offset, limit int) ([]*entity.Request, error) {
	offset, limit = clampPage(offset, limit)
	rows, err := r.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM climate_service.requests ORDER BY request_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return collectRequests(rows, "list requests")
}

// GetByID obtiene una solicitud por ID.
func (r *RequestRepo) GetByID(ctx context.Context, id int64) (*entity.Request, error) {
	return oneRequest(r.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM climate_service.requests WHERE request_id = $1`, id), "get request by id")
}

// GetForClient la condición por client_id va en el WHERE: una solicitud ajena es indistinguible de una inexistente.
func (r *RequestRepo) GetForClient(ctx context.Context, id, clientID int64) (*entity.Request, error) {
	return oneRequest(r.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM climate_service.requests WHERE request_id = $1 AND client_id = $2`,
		id, clientID), "get request for client")
}

// ListByClient solicitudes del cliente; status vacío no filtra.
func (r *RequestRepo) ListByClient(ctx context.Context, clientID int64, status entity.RequestStatus, offset, limit int) ([]*entity.Request, error) {
	offset, limit = clampPage(offset, limit)
	rows, err := r.pool.Query(ctx, `
		SELECT `+requestColumns+` FROM climate_service.requests
		WHERE client_id = $1 AND ($2::text = '' OR request_status = $2::text)
		ORDER BY request_id LIMIT $3 OFFSET $4`,
		clientID, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list requests by client: %w", err)
	}
	return collectRequests(rows, "list requests by client")
}

// Search filtra por los criterios no vacíos del filtro.
func (r *RequestRepo) Search(ctx context.Context, f repository.RequestFilter) ([]*entity.Request, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.RequestID > 0 {
		add("request_id = $%d", f.RequestID)
	}
	if f.Status != "" {
		add("request_status = $%d", string(f.Status))
	}
	if f.TechType != "" {
		add("climate_tech_type ILIKE '%%' || $%d::text || '%%'", f.TechType)
	}
	if f.TechModel != "" {
		add("climate_tech_model ILIKE '%%' || $%d::text || '%%'", f.TechModel)
	}
	if f.ClientID > 0 {
		add("client_id = $%d", f.ClientID)
	}
	if f.MasterID > 0 {
		add("master_id = $%d", f.MasterID)
	}
	if f.Text != "" {
		add("problem_description ILIKE '%%' || $%d::text || '%%'", f.Text)
	}

	sql := `SELECT ` + requestColumns + ` FROM climate_service.requests`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	offset, limit := clampPage(f.Offset, f.Limit)
	args = append(args, limit, offset)
	sql += fmt.Sprintf(` ORDER BY request_id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search requests: %w", err)
	}
	return collectRequests(rows, "search requests")
}

// Create persiste una nueva solicitud; el id lo asigna la secuencia.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) (*entity.Request, error) {
	return insertWithRepair(ctx, r.tx, requestsTable, func(ctx context.Context, q Querier) (*entity.Request, error) {
		out, err := scanRequest(q.QueryRow(ctx, `
			INSERT INTO climate_service.requests
				(start_date, climate_tech_type, climate_tech_model, problem_description,
				 request_status, completion_date, repair_parts, master_id, client_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+requestColumns,
			req.StartDate, req.TechType, req.TechModel, req.ProblemDescription,
			string(req.Status), dateOrNil(req.CompletionDate), req.RepairParts, req.MasterID, req.ClientID,
		))
		if err != nil {
			return nil, fmt.Errorf("insert request: %w", err)
		}
		return out, nil
	})
}

// Update aplica el patch sobre la fila bloqueada (FOR UPDATE) y la reescribe en la misma transacción.
func (r *RequestRepo) Update(ctx context.Context, id int64, patch entity.RequestPatch) (*entity.Request, error) {
	var out *entity.Request
	err := r.tx.Run(ctx, func(q Querier) error {
		cur, err := oneRequest(q.QueryRow(ctx,
			`SELECT `+requestColumns+` FROM climate_service.requests WHERE request_id = $1 FOR UPDATE`, id), "lock request")
		if err != nil || cur == nil {
			return err
		}
		patch.Apply(cur)
		out, err = scanRequest(q.QueryRow(ctx, `
			UPDATE climate_service.requests
			SET request_status = $2, completion_date = $3, repair_parts = $4, master_id = $5, client_id = $6
			WHERE request_id = $1
			RETURNING `+requestColumns,
			cur.ID, string(cur.Status), dateOrNil(cur.CompletionDate), cur.RepairParts, cur.MasterID, cur.ClientID,
		))
		if err != nil {
			return fmt.Errorf("update request: %w", translateWriteError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina una solicitud (sus comentarios caen en cascada) y devuelve su estado previo.
func (r *RequestRepo) Delete(ctx context.Context, id int64) (*entity.Request, error) {
	var out *entity.Request
	err := r.tx.Run(ctx, func(q Querier) error {
		var err error
		out, err = oneRequest(q.QueryRow(ctx,
			`DELETE FROM climate_service.requests WHERE request_id = $1 RETURNING `+requestColumns, id), "delete request")
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// dateOrNil evita enviar un *time.Time nil tipado como valor.
func dateOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
