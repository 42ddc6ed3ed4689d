package repository

import (
	"context"

	"github.com/jhoicas/climate-service/internal/domain/entity"
)

// CommentRepository define el puerto de persistencia para Comment (DIP).
type CommentRepository interface {
	List(ctx context.Context, offset, limit int) ([]*entity.Comment, error)
	GetByID(ctx context.Context, id int64) (*entity.Comment, error)
	Create(ctx context.Context, c *entity.Comment) (*entity.Comment, error)
	Update(ctx context.Context, id int64, patch entity.CommentPatch) (*entity.Comment, error)
	Delete(ctx context.Context, id int64) (*entity.Comment, error)
	ListByRequest(ctx context.Context, requestID int64) ([]*entity.Comment, error)
}
