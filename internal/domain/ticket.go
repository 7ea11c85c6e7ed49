package domain

import "time"

// TicketStatus enumerates the closed set of ticket states. Any status may
// overwrite any other, including itself; there is no transition graph.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "inprogress"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether the status is a member of the closed set.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. OwnerID references the
// user that created the ticket; the reference is checked at creation time
// only.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketWithOwner is a ticket annotated with its owner's identity, as
// returned by admin listings.
type TicketWithOwner struct {
	Ticket
	OwnerName  string
	OwnerEmail string
}

// TicketStatusChange is one audit entry for an administrative status
// update.
type TicketStatusChange struct {
	ID          string
	TicketID    string
	OldStatus   TicketStatus
	NewStatus   TicketStatus
	ChangedByID string
	CreatedAt   time.Time
}
