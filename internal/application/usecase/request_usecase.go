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
	"github.com/jhoicas/climate-service/pkg/optional"
)

// RequestUseCase operaciones del personal sobre solicitudes de reparación.
type RequestUseCase struct {
	repo     repository.RequestRepository
	users    repository.UserRepository
	comments repository.CommentRepository
	events   eventEmitter
	log      *logger.Logger
}

// NewRequestUseCase construye el caso de uso. events puede ser nil.
func NewRequestUseCase(
	repo repository.RequestRepository,
	users repository.UserRepository,
	comments repository.CommentRepository,
	events ports.EventPublisher,
	log *logger.Logger,
) *RequestUseCase {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("requests")
	return &RequestUseCase{
		repo:     repo,
		users:    users,
		comments: comments,
		events:   newEventEmitter(events, log),
		log:      log,
	}
}

// List lista solicitudes con paginación.
func (uc *RequestUseCase) List(ctx context.Context, offset, limit int) ([]dto.RequestResponse, error) {
	list, err := uc.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return dto.FromRequests(list), nil
}

// Search búsqueda por criterios combinables.
func (uc *RequestUseCase) Search(ctx context.Context, q dto.SearchRequestsQuery) ([]dto.RequestResponse, error) {
	offset, limit := q.Normalize()
	list, err := uc.repo.Search(ctx, repository.RequestFilter{
		RequestID: q.RequestID,
		Status:    entity.RequestStatus(strings.TrimSpace(q.RequestStatus)),
		TechType:  strings.TrimSpace(q.ClimateTechType),
		TechModel: strings.TrimSpace(q.ClimateTechModel),
		ClientID:  q.ClientID,
		MasterID:  q.MasterID,
		Text:      strings.TrimSpace(q.Query),
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	return dto.FromRequests(list), nil
}

// GetByID obtiene una solicitud; (nil, nil) si no existe.
func (uc *RequestUseCase) GetByID(ctx context.Context, id int64) (*dto.RequestResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromRequest(r), nil
}

// Create alta por el personal. Estado vacío -> "Новая заявка".
func (uc *RequestUseCase) Create(ctx context.Context, actorID int64, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	start, err := dto.ParseDate(in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	req := &entity.Request{
		StartDate:          start,
		TechType:           strings.TrimSpace(in.ClimateTechType),
		TechModel:          strings.TrimSpace(in.ClimateTechModel),
		ProblemDescription: strings.TrimSpace(in.ProblemDescription),
		Status:             entity.RequestStatus(strings.TrimSpace(in.RequestStatus)),
		RepairParts:        in.RepairParts,
		MasterID:           in.MasterID,
		ClientID:           in.ClientID,
	}
	if !req.Status.Valid() {
		req.Status = entity.StatusNew
	}
	if in.CompletionDate != nil && strings.TrimSpace(*in.CompletionDate) != "" {
		d, err := dto.ParseDate(*in.CompletionDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		req.CompletionDate = &d
	}
	return uc.create(ctx, actorID, req)
}

func (uc *RequestUseCase) create(ctx context.Context, actorID int64, req *entity.Request) (*dto.RequestResponse, error) {
	out, err := uc.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("request_id", out.ID).Int64("client_id", out.ClientID).Int64("actor_id", actorID).Msg("solicitud creada")
	uc.events.emit(ctx, ports.EventRequestCreated, actorID, out, "")
	return dto.FromRequest(out), nil
}

// Update actualización parcial; (nil, nil) si no existe.
func (uc *RequestUseCase) Update(ctx context.Context, actorID, id int64, in dto.UpdateRequestRequest) (*dto.RequestResponse, error) {
	patch, err := in.ToPatch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if patch.Empty() {
		return uc.GetByID(ctx, id)
	}
	return uc.apply(ctx, actorID, id, patch, ports.EventRequestUpdated, "")
}

// Assign asigna un especialista (solo master_id). El usuario debe existir y tener rol Специалист.
func (uc *RequestUseCase) Assign(ctx context.Context, actorID, id int64, in dto.AssignRequest) (*dto.RequestResponse, error) {
	master, err := uc.users.GetByID(ctx, in.MasterID)
	if err != nil {
		return nil, err
	}
	if master == nil || master.Role != entity.RoleSpecialist {
		return nil, fmt.Errorf("%w: el usuario %d no es un especialista", domain.ErrInvalidInput, in.MasterID)
	}
	return uc.apply(ctx, actorID, id, entity.RequestPatch{MasterID: optional.Of(in.MasterID)}, ports.EventRequestAssigned, "")
}

// Extend cambia solo completion_date. El motivo se registra pero no se almacena.
func (uc *RequestUseCase) Extend(ctx context.Context, actorID, id int64, in dto.ExtendRequest) (*dto.RequestResponse, error) {
	d, err := dto.ParseDate(in.NewCompletionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	reason := strings.TrimSpace(in.Reason)
	out, err := uc.apply(ctx, actorID, id, entity.RequestPatch{CompletionDate: optional.Of(d)}, ports.EventRequestExtended, reason)
	if err != nil || out == nil {
		return out, err
	}
	uc.log.Info().Int64("request_id", id).Str("new_completion_date", in.NewCompletionDate).Str("reason", reason).Msg("plazo prorrogado")
	return out, nil
}

func (uc *RequestUseCase) apply(ctx context.Context, actorID, id int64, patch entity.RequestPatch, event, reason string) (*dto.RequestResponse, error) {
	out, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	uc.events.emit(ctx, event, actorID, out, reason)
	return dto.FromRequest(out), nil
}

// Delete elimina la solicitud (y sus comentarios); (nil, nil) si no existe.
func (uc *RequestUseCase) Delete(ctx context.Context, actorID, id int64) (*dto.RequestResponse, error) {
	out, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	uc.log.Info().Int64("request_id", id).Int64("actor_id", actorID).Msg("solicitud eliminada")
	uc.events.emit(ctx, ports.EventRequestDeleted, actorID, out, "")
	return dto.FromRequest(out), nil
}

// Comments comentarios de la solicitud; domain.ErrNotFound si la solicitud no existe.
func (uc *RequestUseCase) Comments(ctx context.Context, id int64) ([]dto.CommentResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
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
