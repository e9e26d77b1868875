package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// UpdateStatusRequest payload. The value is checked against the status enum by the service.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TicketResponse is the public ticket representation.
type TicketResponse struct {
	ID          string              `json:"id"`
	OwnerID     string              `json:"owner_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// OwnerResponse carries owner display fields.
type OwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// TicketWithOwnerResponse is returned by the admin listing.
type TicketWithOwnerResponse struct {
	TicketResponse
	Owner OwnerResponse `json:"owner"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		OwnerID:     ticket.OwnerID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

// NewTicketWithOwnerResponse maps a ticket annotated with its owner.
func NewTicketWithOwnerResponse(item *domain.TicketWithOwner) TicketWithOwnerResponse {
	return TicketWithOwnerResponse{
		TicketResponse: NewTicketResponse(&item.Ticket),
		Owner: OwnerResponse{
			ID:    item.Owner.ID,
			Name:  item.Owner.Name,
			Email: item.Owner.Email,
		},
	}
}
