package dto

import (
	"time"

	"github.com/spec-kit/miniticket/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketOwner identifies a ticket's owner in admin listings.
type TicketOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TicketResponse is the wire shape of a ticket. Owner is present only for
// admin callers.
type TicketResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	OwnerID     string              `json:"owner_id"`
	Owner       *TicketOwner        `json:"owner,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// StatusChangeResponse is one audit entry for a ticket.
type StatusChangeResponse struct {
	ID          string              `json:"id"`
	TicketID    string              `json:"ticket_id"`
	OldStatus   domain.TicketStatus `json:"old_status"`
	NewStatus   domain.TicketStatus `json:"new_status"`
	ChangedByID string              `json:"changed_by_id"`
	CreatedAt   time.Time           `json:"created_at"`
}
