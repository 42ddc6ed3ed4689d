package ports

import (
	"context"
	"time"
)

// Tipos de evento de solicitudes.
const (
	EventRequestCreated  = "request.created"
	EventRequestUpdated  = "request.updated"
	EventRequestAssigned = "request.assigned"
	EventRequestExtended = "request.extended"
	EventRequestDeleted  = "request.deleted"
)

// RequestEvent cambio sobre una solicitud, publicado para consumidores externos (notificaciones, auditoría).
type RequestEvent struct {
	Type           string    `json:"type"`
	RequestID      int64     `json:"request_id"`
	ClientID       int64     `json:"client_id"`
	MasterID       *int64    `json:"master_id,omitempty"`
	Status         string    `json:"request_status"`
	CompletionDate *string   `json:"completion_date,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	ActorID        int64     `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisher puerto de salida para eventos de solicitudes.
// Un error de publicación nunca debe hacer fallar la operación que lo originó.
type EventPublisher interface {
	Publish(ctx context.Context, ev RequestEvent) error
}

// NoopPublisher descarta los eventos (RABBITMQ_URL vacío y tests).
type NoopPublisher struct{}

// Publish no hace nada.
func (NoopPublisher) Publish(context.Context, RequestEvent) error { return nil }
