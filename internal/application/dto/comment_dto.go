package dto

import "github.com/jhoicas/climate-service/pkg/optional"

// CreateCommentRequest nuevo comentario. master_id vacío = el usuario autenticado.
type CreateCommentRequest struct {
	Message   string `json:"message" validate:"required"`
	MasterID  int64  `json:"master_id" validate:"omitempty,gt=0"`
	RequestID int64  `json:"request_id" validate:"required,gt=0"`
}

// UpdateCommentRequest actualización parcial de un comentario.
type UpdateCommentRequest struct {
	Message   optional.Field[string] `json:"message"`
	MasterID  optional.Field[int64]  `json:"master_id"`
	RequestID optional.Field[int64]  `json:"request_id"`
}

// CommentResponse salida de un comentario.
type CommentResponse struct {
	CommentID int64  `json:"comment_id"`
	Message   string `json:"message"`
	MasterID  int64  `json:"master_id"`
	RequestID int64  `json:"request_id"`
}
