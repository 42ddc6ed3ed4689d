package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/application/ports"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/jhoicas/climate-service/pkg/logger"
)

// eventEmitter publica eventos de solicitudes; los errores solo se registran.
type eventEmitter struct {
	pub ports.EventPublisher
	log *logger.Logger
	now func() time.Time
}

func newEventEmitter(pub ports.EventPublisher, log *logger.Logger) eventEmitter {
	if pub == nil {
		pub = ports.NoopPublisher{}
	}
	return eventEmitter{pub: pub, log: log, now: time.Now}
}

func (e eventEmitter) emit(ctx context.Context, typ string, actorID int64, r *entity.Request, reason string) {
	ev := ports.RequestEvent{
		Type:       typ,
		RequestID:  r.ID,
		ClientID:   r.ClientID,
		MasterID:   r.MasterID,
		Status:     string(r.Status),
		Reason:     reason,
		ActorID:    actorID,
		OccurredAt: e.now().UTC(),
	}
	if r.CompletionDate != nil {
		s := dto.FormatDate(*r.CompletionDate)
		ev.CompletionDate = &s
	}
	if err := e.pub.Publish(ctx, ev); err != nil {
		e.log.Warn().Err(err).Str("event", typ).Int64("request_id", r.ID).Msg("no se pudo publicar el evento")
	}
}
