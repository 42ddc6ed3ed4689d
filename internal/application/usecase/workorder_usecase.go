package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/climate-service/internal/application/ports"
	"github.com/jhoicas/climate-service/internal/domain"
	"github.com/jhoicas/climate-service/internal/domain/repository"
)

// WorkOrderUseCase genera la hoja de trabajo imprimible de una solicitud.
type WorkOrderUseCase struct {
	requests  repository.RequestRepository
	users     repository.UserRepository
	comments  repository.CommentRepository
	generator ports.WorkOrderPDFGenerator
}

// NewWorkOrderUseCase construye el caso de uso inyectando todas sus dependencias.
func NewWorkOrderUseCase(
	requests repository.RequestRepository,
	users repository.UserRepository,
	comments repository.CommentRepository,
	generator ports.WorkOrderPDFGenerator,
) *WorkOrderUseCase {
	return &WorkOrderUseCase{requests: requests, users: users, comments: comments, generator: generator}
}

// Download devuelve (pdf, nombre de archivo). domain.ErrNotFound si la solicitud no existe.
func (uc *WorkOrderUseCase) Download(ctx context.Context, id int64) ([]byte, string, error) {
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener solicitud: %w", err)
	}
	if req == nil {
		return nil, "", domain.ErrNotFound
	}
	client, err := uc.users.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if client == nil {
		return nil, "", fmt.Errorf("pdf: cliente %d inexistente", req.ClientID)
	}
	wo := ports.WorkOrder{Request: req, Client: client}
	if req.MasterID != nil {
		if wo.Master, err = uc.users.GetByID(ctx, *req.MasterID); err != nil {
			return nil, "", fmt.Errorf("pdf: obtener especialista: %w", err)
		}
	}
	if wo.Comments, err = uc.comments.ListByRequest(ctx, id); err != nil {
		return nil, "", fmt.Errorf("pdf: obtener comentarios: %w", err)
	}
	pdf, err := uc.generator.GenerateWorkOrder(ctx, wo)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("work-order-%d.pdf", id), nil
}
