package dto

import "github.com/jhoicas/climate-service/pkg/optional"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	FIO      string `json:"fio" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"max=32"`
	Login    string `json:"login" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
	UserType string `json:"user_type" validate:"required,role"`
}

// UpdateUserRequest actualización parcial; solo se aplican las claves presentes en el JSON.
type UpdateUserRequest struct {
	FIO      optional.Field[string] `json:"fio"`
	Phone    optional.Field[string] `json:"phone"`
	Login    optional.Field[string] `json:"login"`
	Password optional.Field[string] `json:"password"`
	UserType optional.Field[string] `json:"user_type"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	UserID   int64  `json:"user_id"`
	FIO      string `json:"fio"`
	Phone    string `json:"phone"`
	Login    string `json:"login"`
	UserType string `json:"user_type"`
}
