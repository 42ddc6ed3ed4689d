package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/domain"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/jhoicas/climate-service/internal/domain/repository"
)

// CommentUseCase CRUD de comentarios.
type CommentUseCase struct {
	repo repository.CommentRepository
}

// NewCommentUseCase construye el caso de uso.
func NewCommentUseCase(repo repository.CommentRepository) *CommentUseCase {
	return &CommentUseCase{repo: repo}
}

// List lista comentarios con paginación.
func (uc *CommentUseCase) List(ctx context.Context, offset, limit int) ([]dto.CommentResponse, error) {
	list, err := uc.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return dto.FromComments(list), nil
}

// GetByID (nil, nil) si no existe.
func (uc *CommentUseCase) GetByID(ctx context.Context, id int64) (*dto.CommentResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromComment(c), nil
}

// Create master_id 0 -> el autor es el usuario autenticado.
func (uc *CommentUseCase) Create(ctx context.Context, actorID int64, in dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, fmt.Errorf("%w: message es requerido", domain.ErrInvalidInput)
	}
	masterID := in.MasterID
	if masterID == 0 {
		masterID = actorID
	}
	c, err := uc.repo.Create(ctx, &entity.Comment{Message: msg, MasterID: masterID, RequestID: in.RequestID})
	if err != nil {
		return nil, err
	}
	return dto.FromComment(c), nil
}

// Update actualización parcial; (nil, nil) si no existe.
func (uc *CommentUseCase) Update(ctx context.Context, id int64, in dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	patch, err := in.ToPatch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	c, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return dto.FromComment(c), nil
}

// Delete devuelve el estado previo; (nil, nil) si no existe.
func (uc *CommentUseCase) Delete(ctx context.Context, id int64) (*dto.CommentResponse, error) {
	c, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromComment(c), nil
}
