package repository

import (
	"context"

	"github.com/jhoicas/climate-service/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Get/Update/Delete devuelven (nil, nil) cuando el id no existe.
type UserRepository interface {
	List(ctx context.Context, offset, limit int) ([]*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByLogin(ctx context.Context, login string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	Update(ctx context.Context, id int64, patch entity.UserPatch) (*entity.User, error)
	// Delete elimina el usuario; la base de datos borra sus comentarios y las solicitudes
	// donde es cliente, y anula master_id donde era especialista.
	Delete(ctx context.Context, id int64) (*entity.User, error)
}
