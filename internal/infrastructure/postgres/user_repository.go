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

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `user_id, fio, phone, login, password, user_type`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool, tx *TxRunner) *UserRepo {
	return &UserRepo{pool: pool, tx: tx}
}

func scanUser(row scanner) (*entity.User, error) {
	var u entity.User
	var role string
	if err := row.Scan(&u.ID, &u.FIO, &u.Phone, &u.Login, &u.PasswordHash, &role); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}

// oneUser devuelve (nil, nil) cuando no hay fila.
func oneUser(row pgx.Row, op string) (*entity.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// List lista usuarios con paginación.
func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	offset, limit = clampPage(offset, limit)
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM climate_service.users ORDER BY user_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return oneUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM climate_service.users WHERE user_id = $1`, id), "get user by id")
}

// GetByLogin obtiene un usuario por login.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*entity.User, error) {
	return oneUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM climate_service.users WHERE login = $1`, login), "get user by login")
}

// Create persiste un nuevo usuario; el id lo asigna la secuencia.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	return insertWithRepair(ctx, r.tx, usersTable, func(ctx context.Context, q Querier) (*entity.User, error) {
		u, err := scanUser(q.QueryRow(ctx, `
			INSERT INTO climate_service.users (fio, phone, login, password, user_type)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+userColumns,
			user.FIO, user.Phone, user.Login, user.PasswordHash, string(user.Role),
		))
		if err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		return u, nil
	})
}

// Update aplica el patch sobre la fila bloqueada (FOR UPDATE) y la reescribe en la misma transacción.
func (r *UserRepo) Update(ctx context.Context, id int64, patch entity.UserPatch) (*entity.User, error) {
	var out *entity.User
	err := r.tx.Run(ctx, func(q Querier) error {
		u, err := oneUser(q.QueryRow(ctx,
			`SELECT `+userColumns+` FROM climate_service.users WHERE user_id = $1 FOR UPDATE`, id), "lock user")
		if err != nil || u == nil {
			return err
		}
		patch.Apply(u)
		out, err = scanUser(q.QueryRow(ctx, `
			UPDATE climate_service.users
			SET fio = $2, phone = $3, login = $4, password = $5, user_type = $6
			WHERE user_id = $1
			RETURNING `+userColumns,
			u.ID, u.FIO, u.Phone, u.Login, u.PasswordHash, string(u.Role),
		))
		if err != nil {
			return fmt.Errorf("update user: %w", translateWriteError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina un usuario por ID y devuelve su estado previo.
func (r *UserRepo) Delete(ctx context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.tx.Run(ctx, func(q Querier) error {
		var err error
		out, err = oneUser(q.QueryRow(ctx,
			`DELETE FROM climate_service.users WHERE user_id = $1 RETURNING `+userColumns, id), "delete user")
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
