package domain

import (
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every accepted status.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed}

// ParseTicketStatus validates a caller supplied status. Any status may follow any other.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	for _, status := range TicketStatuses {
		if string(status) == raw {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown ticket status %q", raw)
}

// Ticket is a support request raised by a user.
type Ticket struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketWithOwner pairs a ticket with its owner's display fields.
type TicketWithOwner struct {
	Ticket
	Owner Owner
}
