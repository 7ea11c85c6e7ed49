package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/miniticket/internal/auth"
	"github.com/spec-kit/miniticket/internal/domain"
	"github.com/spec-kit/miniticket/internal/events"
	"github.com/spec-kit/miniticket/internal/repository"
	apperrors "github.com/spec-kit/miniticket/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
}

// TicketListing is the result of a role-scoped listing. Owner fields are
// populated only for admin callers.
type TicketListing struct {
	Tickets []domain.TicketWithOwner
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create persists a new ticket owned by the caller with status open.
func (s *TicketService) Create(ctx context.Context, caller *auth.Principal, title, description string) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      domain.TicketStatusOpen,
		OwnerID:     caller.UserID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorFor(caller),
		Payload: events.TicketCreatedPayload{
			Title:   ticket.Title,
			OwnerID: ticket.OwnerID,
		},
	})
	return ticket, nil
}

// List returns every ticket with owner identity for admin callers, and
// exactly the caller's own tickets otherwise.
func (s *TicketService) List(ctx context.Context, caller *auth.Principal) ([]domain.TicketWithOwner, error) {
	if caller.IsAdmin() {
		return s.tickets.ListAllWithOwners(ctx)
	}

	own, err := s.tickets.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	result := make([]domain.TicketWithOwner, 0, len(own))
	for _, ticket := range own {
		result = append(result, domain.TicketWithOwner{Ticket: ticket})
	}
	return result, nil
}

// UpdateStatus overwrites a ticket's status. Role enforcement happens at
// the route; here only membership in the status set and ticket existence
// are checked. Any status may replace any other.
func (s *TicketService) UpdateStatus(ctx context.Context, caller *auth.Principal, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ticket, err := s.tickets.UpdateStatus(ctx, ticketID, newStatus)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.history != nil {
		entry := &domain.TicketStatusChange{
			TicketID:    ticket.ID,
			OldStatus:   current.Status,
			NewStatus:   newStatus,
			ChangedByID: caller.UserID,
		}
		if err := s.history.Create(ctx, entry); err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actorFor(caller),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

// History returns the status-change audit trail for one ticket.
func (s *TicketService) History(ctx context.Context, ticketID string) ([]domain.TicketStatusChange, error) {
	if s.history == nil {
		return []domain.TicketStatusChange{}, nil
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.history.ListByTicket(ctx, ticketID)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFor(caller *auth.Principal) events.Actor {
	return events.Actor{UserID: caller.UserID, Role: caller.Role}
}
