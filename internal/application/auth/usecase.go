package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/domain"
	"github.com/jhoicas/climate-service/internal/domain/repository"
	"github.com/jhoicas/climate-service/pkg/jwt"
	"github.com/jhoicas/climate-service/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login y perfil propio.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	jwtCfg    JWTConfig
	log       *logger.Logger
	dummyHash []byte
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	// Hash de relleno: un login inexistente cuesta lo mismo que una contraseña incorrecta.
	dummy, err := bcrypt.GenerateFromPassword([]byte("climate-service/no-such-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: hash de relleno: %v", err))
	}
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log.Component("auth"), dummyHash: dummy}
}

// HashPassword bcrypt con el costo por defecto.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login verifica login/password y emite el JWT. Login inexistente y contraseña incorrecta
// devuelven el mismo domain.ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByLogin(ctx, in.Login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(uc.dummyHash, []byte(in.Password))
		uc.log.Info().Str("login", in.Login).Msg("login fallido")
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Error().Err(err).Int64("user_id", user.ID).Msg("hash almacenado inválido")
		}
		uc.log.Info().Str("login", in.Login).Msg("login fallido")
		return nil, domain.ErrInvalidCredentials
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("login correcto")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        string(user.Role),
		UserID:      user.ID,
	}, nil
}

// Me perfil del usuario autenticado, leído de la base de datos.
// Un token válido de un usuario ya eliminado devuelve domain.ErrUnauthorized.
func (uc *AuthUseCase) Me(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return dto.FromUser(user), nil
}

