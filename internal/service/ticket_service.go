package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// OwnerDirectory resolves display fields for ticket owners.
type OwnerDirectory interface {
	Resolve(ctx context.Context, ids []string) (map[string]domain.Owner, error)
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	owners     OwnerDirectory
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Owners     OwnerDirectory
	Dispatcher events.Dispatcher
	Clock      func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		owners:     deps.Owners,
		dispatcher: deps.Dispatcher,
		now:        clock,
	}
}

// Create opens a new ticket owned by the caller.
func (s *TicketService) Create(ctx context.Context, caller domain.Identity, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	missing := map[string]any{}
	if title == "" {
		missing["title"] = "required"
	}
	if description == "" {
		missing["description"] = "required"
	}
	if len(missing) > 0 {
		return nil, errorutil.NewValidationError("title and description are required", missing)
	}

	now := s.timestamp()
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		OwnerID:     caller.SubjectID,
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, errorutil.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorOf(caller),
		Payload: events.TicketCreatedPayload{
			Title:  ticket.Title,
			Status: ticket.Status,
		},
	})
	return ticket, nil
}

// ListMine returns the caller's own tickets in store order.
func (s *TicketService) ListMine(ctx context.Context, caller domain.Identity) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByOwner(ctx, caller.SubjectID)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return tickets, nil
}

// ListAll returns every ticket with its owner's display fields. Admin only.
func (s *TicketService) ListAll(ctx context.Context, caller domain.Identity) ([]domain.TicketWithOwner, error) {
	if !caller.IsAdmin() {
		return nil, errorutil.NewForbidden("access denied: admins only")
	}

	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}

	ownerIDs := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		ownerIDs = append(ownerIDs, ticket.OwnerID)
	}
	owners := map[string]domain.Owner{}
	if s.owners != nil && len(ownerIDs) > 0 {
		owners, err = s.owners.Resolve(ctx, ownerIDs)
		if err != nil {
			return nil, errorutil.NewInternalError(err)
		}
	}

	result := make([]domain.TicketWithOwner, 0, len(tickets))
	for _, ticket := range tickets {
		owner, ok := owners[ticket.OwnerID]
		if !ok {
			owner = domain.Owner{ID: ticket.OwnerID}
		}
		result = append(result, domain.TicketWithOwner{Ticket: ticket, Owner: owner})
	}
	return result, nil
}

// UpdateStatus sets a ticket's status. Admin only. Setting the current status again is a no-op.
func (s *TicketService) UpdateStatus(ctx context.Context, caller domain.Identity, ticketID, newStatus string) (*domain.Ticket, error) {
	if !caller.IsAdmin() {
		return nil, errorutil.NewForbidden("access denied: admins only")
	}

	status, err := domain.ParseTicketStatus(strings.TrimSpace(newStatus))
	if err != nil {
		return nil, errorutil.NewValidationError("invalid status", map[string]any{
			"status":  newStatus,
			"allowed": domain.TicketStatuses,
		})
	}

	if _, err := uuid.Parse(ticketID); err != nil {
		return nil, ticketNotFound(ticketID)
	}
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapStoreError(err, ticketID)
	}
	if current.Status == status {
		return current, nil
	}

	updated, err := s.tickets.UpdateStatus(ctx, ticketID, status, s.timestamp())
	if err != nil {
		return nil, mapStoreError(err, ticketID)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: updated.ID,
		Actor:    actorOf(caller),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

// Stores keep millisecond precision at best.
func (s *TicketService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorOf(identity domain.Identity) events.Actor {
	return events.Actor{SubjectID: identity.SubjectID, Role: identity.Role}
}

func ticketNotFound(id string) error {
	return errorutil.NewNotFound("ticket", map[string]any{"id": id})
}

func mapStoreError(err error, ticketID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ticketNotFound(ticketID)
	}
	return errorutil.NewInternalError(err)
}
