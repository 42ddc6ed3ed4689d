package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/application/ports"
	"github.com/jhoicas/climate-service/internal/domain"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/jhoicas/climate-service/internal/domain/repository"
	"github.com/jhoicas/climate-service/pkg/logger"
)

// ClientUseCase autoservicio del cliente: solo ve y crea sus propias solicitudes.
// Una solicitud de otro cliente se trata igual que una inexistente.
type ClientUseCase struct {
	requests repository.RequestRepository
	comments repository.CommentRepository
	events   eventEmitter
	log      *logger.Logger
}

// NewClientUseCase construye el caso de uso. events puede ser nil.
func NewClientUseCase(
	requests repository.RequestRepository,
	comments repository.CommentRepository,
	events ports.EventPublisher,
	log *logger.Logger,
) *ClientUseCase {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("client")
	return &ClientUseCase{
		requests: requests,
		comments: comments,
		events:   newEventEmitter(events, log),
		log:      log,
	}
}

// List solicitudes del cliente, opcionalmente por estado.
func (uc *ClientUseCase) List(ctx context.Context, clientID int64, status string, offset, limit int) ([]dto.RequestResponse, error) {
	list, err := uc.requests.ListByClient(ctx, clientID, entity.RequestStatus(strings.TrimSpace(status)), offset, limit)
	if err != nil {
		return nil, err
	}
	return dto.FromRequests(list), nil
}

// Create client_id siempre es el del llamante; estado y fecha de inicio por defecto si faltan.
func (uc *ClientUseCase) Create(ctx context.Context, clientID int64, in dto.ClientCreateRequest) (*dto.RequestResponse, error) {
	start := entity.Today()
	if strings.TrimSpace(in.StartDate) != "" {
		d, err := dto.ParseDate(in.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		start = d
	}
	status := entity.RequestStatus(strings.TrimSpace(in.RequestStatus))
	if !status.Valid() {
		status = entity.StatusNew
	}
	if in.ClientID != 0 && in.ClientID != clientID {
		uc.log.Warn().Int64("client_id", clientID).Int64("payload_client_id", in.ClientID).Msg("client_id del cuerpo ignorado")
	}
	out, err := uc.requests.Create(ctx, &entity.Request{
		StartDate:          start,
		TechType:           strings.TrimSpace(in.ClimateTechType),
		TechModel:          strings.TrimSpace(in.ClimateTechModel),
		ProblemDescription: strings.TrimSpace(in.ProblemDescription),
		Status:             status,
		ClientID:           clientID,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("request_id", out.ID).Int64("client_id", clientID).Msg("solicitud creada por el cliente")
	uc.events.emit(ctx, ports.EventRequestCreated, clientID, out, "")
	return dto.FromRequest(out), nil
}

// Get (nil, nil) si no existe o es de otro cliente.
func (uc *ClientUseCase) Get(ctx context.Context, clientID, id int64) (*dto.RequestResponse, error) {
	r, err := uc.requests.GetForClient(ctx, id, clientID)
	if err != nil {
		return nil, err
	}
	return dto.FromRequest(r), nil
}

// Comments domain.ErrNotFound si la solicitud no existe o es de otro cliente.
func (uc *ClientUseCase) Comments(ctx context.Context, clientID, id int64) ([]dto.CommentResponse, error) {
	r, err := uc.requests.GetForClient(ctx, id, clientID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.comments.ListByRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromComments(list), nil
}
