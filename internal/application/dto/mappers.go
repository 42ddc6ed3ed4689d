package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/jhoicas/climate-service/pkg/optional"
)

// ParseDate interpreta AAAA-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(entity.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q, formato esperado AAAA-MM-DD", s)
	}
	return t, nil
}

// FormatDate inverso de ParseDate.
func FormatDate(t time.Time) string {
	return t.Format(entity.DateLayout)
}

// FromUser convierte la entidad en respuesta (sin hash).
func FromUser(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		UserID:   u.ID,
		FIO:      u.FIO,
		Phone:    u.Phone,
		Login:    u.Login,
		UserType: string(u.Role),
	}
}

// FromUsers convierte una lista.
func FromUsers(list []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *FromUser(u))
	}
	return out
}

// FromRequest convierte la entidad en respuesta.
func FromRequest(r *entity.Request) *RequestResponse {
	if r == nil {
		return nil
	}
	out := &RequestResponse{
		RequestID:          r.ID,
		StartDate:          FormatDate(r.StartDate),
		ClimateTechType:    r.TechType,
		ClimateTechModel:   r.TechModel,
		ProblemDescription: r.ProblemDescription,
		RequestStatus:      string(r.Status),
		RepairParts:        r.RepairParts,
		MasterID:           r.MasterID,
		ClientID:           r.ClientID,
	}
	if r.CompletionDate != nil {
		s := FormatDate(*r.CompletionDate)
		out.CompletionDate = &s
	}
	return out
}

// FromRequests convierte una lista.
func FromRequests(list []*entity.Request) []RequestResponse {
	out := make([]RequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *FromRequest(r))
	}
	return out
}

// FromComment convierte la entidad en respuesta.
func FromComment(c *entity.Comment) *CommentResponse {
	if c == nil {
		return nil
	}
	return &CommentResponse{
		CommentID: c.ID,
		Message:   c.Message,
		MasterID:  c.MasterID,
		RequestID: c.RequestID,
	}
}

// FromComments convierte una lista.
func FromComments(list []*entity.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *FromComment(c))
	}
	return out
}

// ToPatch convierte el cuerpo en un patch de dominio validado.
func (in UpdateRequestRequest) ToPatch() (entity.RequestPatch, error) {
	p := entity.RequestPatch{
		RepairParts: in.RepairParts,
		MasterID:    in.MasterID,
		ClientID:    in.ClientID,
	}
	if in.RequestStatus.Present {
		p.Status = optional.Field[entity.RequestStatus]{
			Present: true,
			Null:    in.RequestStatus.Null,
			Value:   entity.RequestStatus(strings.TrimSpace(in.RequestStatus.Value)),
		}
	}
	if in.CompletionDate.Present {
		if in.CompletionDate.Null || strings.TrimSpace(in.CompletionDate.Value) == "" {
			p.CompletionDate = optional.Null[time.Time]()
		} else {
			d, err := ParseDate(in.CompletionDate.Value)
			if err != nil {
				return p, err
			}
			p.CompletionDate = optional.Of(d)
		}
	}
	return p, p.Validate()
}

// ToPatch convierte el cuerpo en un patch de dominio. El password queda en texto; el use case lo hashea.
func (in UpdateUserRequest) ToPatch() (entity.UserPatch, error) {
	p := entity.UserPatch{
		FIO:          in.FIO,
		Phone:        in.Phone,
		Login:        in.Login,
		PasswordHash: in.Password,
	}
	if in.UserType.Present {
		p.Role = optional.Field[entity.Role]{Present: true, Null: in.UserType.Null}
		if !in.UserType.Null {
			role, err := entity.ParseRole(in.UserType.Value)
			if err != nil {
				return p, err
			}
			p.Role.Value = role
		}
	}
	return p, p.Validate()
}

// ToPatch convierte el cuerpo en un patch de dominio validado.
func (in UpdateCommentRequest) ToPatch() (entity.CommentPatch, error) {
	p := entity.CommentPatch{
		Message:   in.Message,
		MasterID:  in.MasterID,
		RequestID: in.RequestID,
	}
	return p, p.Validate()
}
