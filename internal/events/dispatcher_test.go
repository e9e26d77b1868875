package events

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/observability"
)

func TestDispatcher_ContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var calls []string
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestRegisterActivityRecorder(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	metrics := observability.NewMetrics()
	RegisterActivityRecorder(d, metrics, nil)

	err := d.Publish(context.Background(), Event{
		Type:     EventTicketStatusChanged,
		TicketID: "t-1",
		Payload: TicketStatusChangedPayload{
			OldStatus: domain.TicketStatusOpen,
			NewStatus: domain.TicketStatusClosed,
		},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	count, err := testutil.GatherAndCount(metrics.Registry(), "support_desk_ticket_events_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one ticket event series, got %d", count)
	}
}
