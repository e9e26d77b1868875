package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/observability"
)

// RegisterActivityRecorder counts ticket events and logs them at debug level.
func RegisterActivityRecorder(dispatcher Dispatcher, metrics *observability.Metrics, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	record := func(_ context.Context, event Event) error {
		status := ""
		switch payload := event.Payload.(type) {
		case TicketCreatedPayload:
			status = string(payload.Status)
		case TicketStatusChangedPayload:
			status = string(payload.NewStatus)
		}
		metrics.RecordTicketEvent(string(event.Type), status)
		logger.Debug("ticket event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.String("actor", event.Actor.SubjectID),
			zap.Any("payload", event.Payload))
		return nil
	}

	dispatcher.Subscribe(EventTicketCreated, record)
	dispatcher.Subscribe(EventTicketStatusChanged, record)
}
