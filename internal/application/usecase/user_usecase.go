package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/climate-service/internal/application/auth"
	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/domain"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/jhoicas/climate-service/internal/domain/repository"
	"github.com/jhoicas/climate-service/pkg/logger"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
	log  *logger.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, log: log.Component("users")}
}

// List lista usuarios con paginación.
func (uc *UserUseCase) List(ctx context.Context, offset, limit int) ([]dto.UserResponse, error) {
	list, err := uc.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return dto.FromUsers(list), nil
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

// Create hashea el password y persiste. Login repetido -> domain.ErrDuplicate.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role, err := entity.ParseRole(in.UserType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user, err := uc.repo.Create(ctx, &entity.User{
		FIO:          strings.TrimSpace(in.FIO),
		Phone:        strings.TrimSpace(in.Phone),
		Login:        strings.TrimSpace(in.Login),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("usuario creado")
	return dto.FromUser(user), nil
}

// Update actualización parcial; (nil, nil) si no existe.
func (uc *UserUseCase) Update(ctx context.Context, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	patch, err := in.ToPatch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if patch.PasswordHash.HasValue() {
		hash, err := auth.HashPassword(patch.PasswordHash.Value)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash.Value = hash
	}
	user, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

// Delete elimina el usuario y devuelve su estado previo; (nil, nil) si no existe.
func (uc *UserUseCase) Delete(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if user != nil {
		uc.log.Info().Int64("user_id", user.ID).Msg("usuario eliminado")
	}
	return dto.FromUser(user), nil
}
