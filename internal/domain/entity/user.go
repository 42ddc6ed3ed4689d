package entity

// User usuario del sistema: cliente o personal del servicio técnico.
type User struct {
	ID           int64
	FIO          string // nombre completo
	Phone        string
	Login        string // único en todo el sistema
	PasswordHash string // bcrypt, nunca texto plano
	Role         Role
}
