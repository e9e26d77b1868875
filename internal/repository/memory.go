package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// MemoryTicketRepository keeps tickets in process memory in insertion order.
type MemoryTicketRepository struct {
	mu      sync.RWMutex
	order   []string
	tickets map[string]domain.Ticket
}

// NewMemoryTicketRepository creates an empty store.
func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{tickets: make(map[string]domain.Ticket)}
}

func (r *MemoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *ticket
	stored.ID = strings.Clone(ticket.ID)
	if _, exists := r.tickets[stored.ID]; !exists {
		r.order = append(r.order, stored.ID)
	}
	r.tickets[stored.ID] = stored
	return nil
}

func (r *MemoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ticket, nil
}

func (r *MemoryTicketRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.Ticket{}
	for _, id := range r.order {
		if ticket := r.tickets[id]; ticket.OwnerID == ownerID {
			result = append(result, ticket)
		}
	}
	return result, nil
}

func (r *MemoryTicketRepository) ListAll(_ context.Context) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Ticket, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.tickets[id])
	}
	return result, nil
}

func (r *MemoryTicketRepository) UpdateStatus(_ context.Context, id string, status domain.TicketStatus, at time.Time) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	ticket.Status = status
	ticket.UpdatedAt = at
	// Assigning to an existing key replaces the key too; use the stored id so
	// a caller-owned string (e.g. a request buffer) never becomes the key.
	r.tickets[ticket.ID] = ticket
	return &ticket, nil
}

// MemoryUserRepository keeps accounts in process memory.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	byEmail map[string]string
}

// NewMemoryUserRepository creates an empty store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(user.Email)
	if _, taken := r.byEmail[email]; taken {
		return ErrDuplicateEmail
	}
	r.users[user.ID] = *user
	r.byEmail[email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	user := r.users[id]
	return &user, nil
}

func (r *MemoryUserRepository) ListByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			result = append(result, user)
		}
	}
	return result, nil
}
