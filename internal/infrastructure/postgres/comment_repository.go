package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/jhoicas/climate-service/internal/domain/repository"
)

var _ repository.CommentRepository = (*CommentRepo)(nil)

const commentColumns = `comment_id, message, master_id, request_id`

// CommentRepo implementación del puerto CommentRepository sobre PostgreSQL.
type CommentRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewCommentRepository construye el adaptador de persistencia para comentarios.
func NewCommentRepository(pool *pgxpool.Pool, tx *TxRunner) *CommentRepo {
	return &CommentRepo{pool: pool, tx: tx}
}

func scanComment(row scanner) (*entity.Comment, error) {
	var c entity.Comment
	if err := row.Scan(&c.ID, &c.Message, &c.MasterID, &c.RequestID); err != nil {
		return nil, err
	}
	return &c, nil
}

func oneComment(row pgx.Row, op string) (*entity.Comment, error) {
	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (r *CommentRepo) query(ctx context.Context, op, sql string, args ...any) ([]*entity.Comment, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	list := make([]*entity.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// List lista comentarios con paginación.
func (r *CommentRepo) List(ctx context.Context, offset, limit int) ([]*entity.Comment, error) {
	offset, limit = clampPage(offset, limit)
	return r.query(ctx, "list comments",
		`SELECT `+commentColumns+` FROM climate_service.comments ORDER BY comment_id LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByRequest comentarios de una solicitud en orden de creación.
func (r *CommentRepo) ListByRequest(ctx context.Context, requestID int64) ([]*entity.Comment, error) {
	return r.query(ctx, "list comments by request",
		`SELECT `+commentColumns+` FROM climate_service.comments WHERE request_id = $1 ORDER BY comment_id`, requestID)
}

// GetByID obtiene un comentario por ID.
func (r *CommentRepo) GetByID(ctx context.Context, id int64) (*entity.Comment, error) {
	return oneComment(r.pool.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM climate_service.comments WHERE comment_id = $1`, id), "get comment by id")
}

// Create persiste un nuevo comentario; el id lo asigna la secuencia.
func (r *CommentRepo) Create(ctx context.Context, c *entity.Comment) (*entity.Comment, error) {
	return insertWithRepair(ctx, r.tx, commentsTable, func(ctx context.Context, q Querier) (*entity.Comment, error) {
		out, err := scanComment(q.QueryRow(ctx, `
			INSERT INTO climate_service.comments (message, master_id, request_id)
			VALUES ($1, $2, $3)
			RETURNING `+commentColumns,
			c.Message, c.MasterID, c.RequestID,
		))
		if err != nil {
			return nil, fmt.Errorf("insert comment: %w", err)
		}
		return out, nil
	})
}

// Update aplica el patch sobre la fila bloqueada (FOR UPDATE) y la reescribe en la misma transacción.
func (r *CommentRepo) Update(ctx context.Context, id int64, patch entity.CommentPatch) (*entity.Comment, error) {
	var out *entity.Comment
	err := r.tx.Run(ctx, func(q Querier) error {
		cur, err := oneComment(q.QueryRow(ctx,
			`SELECT `+commentColumns+` FROM climate_service.comments WHERE comment_id = $1 FOR UPDATE`, id), "lock comment")
		if err != nil || cur == nil {
			return err
		}
		patch.Apply(cur)
		out, err = scanComment(q.QueryRow(ctx, `
			UPDATE climate_service.comments SET message = $2, master_id = $3, request_id = $4
			WHERE comment_id = $1
			RETURNING `+commentColumns,
			cur.ID, cur.Message, cur.MasterID, cur.RequestID,
		))
		if err != nil {
			return fmt.Errorf("update comment: %w", translateWriteError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina un comentario por ID y devuelve su estado previo.
func (r *CommentRepo) Delete(ctx context.Context, id int64) (*entity.Comment, error) {
	var out *entity.Comment
	err := r.tx.Run(ctx, func(q Querier) error {
		var err error
		out, err = oneComment(q.QueryRow(ctx,
			`DELETE FROM climate_service.comments WHERE comment_id = $1 RETURNING `+commentColumns, id), "delete comment")
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
