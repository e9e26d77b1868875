package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/tickets", "POST", 201, 15*time.Millisecond)
	m.RecordRequest("/api/tickets", "POST", 201, 5*time.Millisecond)
	m.RecordError("/api/tickets/all", "GET", "FORBIDDEN")
	m.RecordTicketEvent("ticket_status_changed", "closed")

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/tickets", "POST", "201")); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.errorsTotal.WithLabelValues("/api/tickets/all", "GET", "FORBIDDEN")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
	if got := testutil.ToFloat64(m.ticketEvents.WithLabelValues("ticket_status_changed", "closed")); got != 1 {
		t.Fatalf("expected 1 ticket event, got %v", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "NOT_FOUND")
	m.RecordTicketEvent("ticket_created", "open")
}
