package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidCredentials = errors.New("login o contraseña incorrectos")
	// ErrCreateFailed la inserción falló aun después de reparar la secuencia de ids.
	// Siempre se devuelve envuelto junto con la causa.
	ErrCreateFailed = errors.New("no se pudo crear el registro")
)
