package ports

import (
	"context"

	"github.com/jhoicas/climate-service/internal/domain/entity"
)

// WorkOrder datos de la hoja de trabajo impresa de una solicitud.
type WorkOrder struct {
	Request  *entity.Request
	Client   *entity.User
	Master   *entity.User // nil si no hay especialista asignado
	Comments []*entity.Comment
}

// WorkOrderPDFGenerator puerto de salida para generar la hoja de trabajo en PDF.
type WorkOrderPDFGenerator interface {
	GenerateWorkOrder(ctx context.Context, wo WorkOrder) ([]byte, error)
}
