package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/climate-service/pkg/optional"
)

// RequestPatch actualización parcial de una solicitud. Solo se aplican los campos presentes.
type RequestPatch struct {
	Status         optional.Field[RequestStatus]
	CompletionDate optional.Field[time.Time]
	RepairParts    optional.Field[string]
	MasterID       optional.Field[int64]
	ClientID       optional.Field[int64]
}

// Empty true si no trae ningún campo.
func (p RequestPatch) Empty() bool {
	return !p.Status.Present && !p.CompletionDate.Present && !p.RepairParts.Present &&
		!p.MasterID.Present && !p.ClientID.Present
}

// Validate rechaza null en columnas NOT NULL y valores vacíos.
func (p RequestPatch) Validate() error {
	if p.Status.Present && (p.Status.Null || !p.Status.Value.Valid()) {
		return fmt.Errorf("request_status no puede ser vacío")
	}
	if p.ClientID.Present && (p.ClientID.Null || p.ClientID.Value <= 0) {
		return fmt.Errorf("client_id debe ser un id válido")
	}
	if p.MasterID.HasValue() && p.MasterID.Value <= 0 {
		return fmt.Errorf("master_id debe ser un id válido")
	}
	return nil
}

// Apply copia sobre r los campos presentes. Un null explícito limpia las columnas opcionales.
func (p RequestPatch) Apply(r *Request) {
	p.Status.ApplyTo(&r.Status)
	if p.CompletionDate.HasValue() {
		d := TruncateDate(p.CompletionDate.Value)
		r.CompletionDate = &d
	} else if p.CompletionDate.Present {
		r.CompletionDate = nil
	}
	p.RepairParts.ApplyToPtr(&r.RepairParts)
	p.MasterID.ApplyToPtr(&r.MasterID)
	p.ClientID.ApplyTo(&r.ClientID)
}

// UserPatch actualización parcial de un usuario. PasswordHash ya viene hasheado.
type UserPatch struct {
	FIO          optional.Field[string]
	Phone        optional.Field[string]
	Login        optional.Field[string]
	PasswordHash optional.Field[string]
	Role         optional.Field[Role]
}

// Validate todas las columnas de users son NOT NULL.
func (p UserPatch) Validate() error {
	if p.FIO.Present && (p.FIO.Null || strings.TrimSpace(p.FIO.Value) == "") {
		return fmt.Errorf("fio no puede ser vacío")
	}
	if p.Phone.Present && p.Phone.Null {
		return fmt.Errorf("phone no puede ser null")
	}
	if p.Login.Present && (p.Login.Null || strings.TrimSpace(p.Login.Value) == "") {
		return fmt.Errorf("login no puede ser vacío")
	}
	if p.PasswordHash.Present && (p.PasswordHash.Null || p.PasswordHash.Value == "") {
		return fmt.Errorf("password no puede ser vacío")
	}
	if p.Role.Present && (p.Role.Null || !p.Role.Value.Valid()) {
		return fmt.Errorf("user_type inválido")
	}
	return nil
}

// Apply copia sobre u los campos presentes.
func (p UserPatch) Apply(u *User) {
	p.FIO.ApplyTo(&u.FIO)
	p.Phone.ApplyTo(&u.Phone)
	p.Login.ApplyTo(&u.Login)
	p.PasswordHash.ApplyTo(&u.PasswordHash)
	p.Role.ApplyTo(&u.Role)
}

// CommentPatch actualización parcial de un comentario.
type CommentPatch struct {
	Message   optional.Field[string]
	MasterID  optional.Field[int64]
	RequestID optional.Field[int64]
}

// Validate mensaje no vacío e ids positivos.
func (p CommentPatch) Validate() error {
	if p.Message.Present && (p.Message.Null || strings.TrimSpace(p.Message.Value) == "") {
		return fmt.Errorf("message no puede ser vacío")
	}
	if p.MasterID.Present && (p.MasterID.Null || p.MasterID.Value <= 0) {
		return fmt.Errorf("master_id debe ser un id válido")
	}
	if p.RequestID.Present && (p.RequestID.Null || p.RequestID.Value <= 0) {
		return fmt.Errorf("request_id debe ser un id válido")
	}
	return nil
}

// Apply copia sobre c los campos presentes.
func (p CommentPatch) Apply(c *Comment) {
	p.Message.ApplyTo(&c.Message)
	p.MasterID.ApplyTo(&c.MasterID)
	p.RequestID.ApplyTo(&c.RequestID)
}
