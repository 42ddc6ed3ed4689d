package repository

import (
	"context"

	"github.com/jhoicas/climate-service/internal/domain/entity"
)

// RequestFilter criterios de búsqueda; los campos vacíos no filtran.
type RequestFilter struct {
	RequestID int64
	Status    entity.RequestStatus
	TechType  string
	TechModel string
	ClientID  int64
	MasterID  int64
	Text      string // subcadena en la descripción del problema (sin distinguir mayúsculas)
	Offset    int
	Limit     int
}

// RequestRepository define el puerto de persistencia para Request (DIP).
type RequestRepository interface {
	List(ctx context.Context, offset, limit int) ([]*entity.Request, error)
	GetByID(ctx context.Context, id int64) (*entity.Request, error)
	Create(ctx context.Context, req *entity.Request) (*entity.Request, error)
	Update(ctx context.Context, id int64, patch entity.RequestPatch) (*entity.Request, error)
	Delete(ctx context.Context, id int64) (*entity.Request, error)

	// ListByClient solicitudes de un cliente, opcionalmente filtradas por estado.
	ListByClient(ctx context.Context, clientID int64, status entity.RequestStatus, offset, limit int) ([]*entity.Request, error)
	// GetForClient (nil, nil) si la solicitud no existe o pertenece a otro cliente.
	GetForClient(ctx context.Context, id, clientID int64) (*entity.Request, error)
	Search(ctx context.Context, f RequestFilter) ([]*entity.Request, error)
}
