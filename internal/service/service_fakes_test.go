package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/miniticket/internal/domain"
	"github.com/spec-kit/miniticket/internal/events"
)

// memUserRepo is an in-memory UserRepository for tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// memTicketRepo is an in-memory TicketRepository for tests.
type memTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	owners  map[string]*domain.User
	order   []string
	seq     int
}

func newMemTicketRepo(users *memUserRepo) *memTicketRepo {
	repo := &memTicketRepo{
		tickets: make(map[string]*domain.Ticket),
		owners:  make(map[string]*domain.User),
	}
	if users != nil {
		users.mu.Lock()
		for id, user := range users.users {
			clone := *user
			repo.owners[id] = &clone
		}
		users.mu.Unlock()
	}
	return repo
}

func (r *memTicketRepo) registerOwner(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.owners[user.ID] = &clone
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	r.order = append(r.order, ticket.ID)
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket, ok := r.tickets[id]; ok {
		clone := *ticket
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memTicketRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, id := range r.order {
		if r.tickets[id].OwnerID == ownerID {
			result = append(result, *r.tickets[id])
		}
	}
	return result, nil
}

func (r *memTicketRepo) ListAllWithOwners(_ context.Context) ([]domain.TicketWithOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketWithOwner
	for _, id := range r.order {
		item := domain.TicketWithOwner{Ticket: *r.tickets[id]}
		if owner, ok := r.owners[item.OwnerID]; ok {
			item.OwnerName = owner.Name
			item.OwnerEmail = owner.Email
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *memTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now()
	clone := *ticket
	return &clone, nil
}

// memHistoryRepo is an in-memory TicketHistoryRepository for tests.
type memHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.TicketStatusChange
	seq     int
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{}
}

func (r *memHistoryRepo) Create(_ context.Context, entry *domain.TicketStatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	entry.ID = fmt.Sprintf("change-%d", r.seq)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memHistoryRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketStatusChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketStatusChange
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// stubThrottle is a scriptable LoginThrottle.
type stubThrottle struct {
	mu       sync.Mutex
	denied   bool
	failures []string
	resets   []string
}

func (s *stubThrottle) Allow(_ context.Context, _ string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.denied
}

func (s *stubThrottle) RecordFailure(_ context.Context, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, email)
}

func (s *stubThrottle) Reset(_ context.Context, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets = append(s.resets, email)
}

// wrappingUserRepo adds context to every error from the inner repository,
// the way a repository layer wrapping driver errors would.
type wrappingUserRepo struct {
	inner *memUserRepo
}

func (r *wrappingUserRepo) Create(ctx context.Context, user *domain.User) error {
	return wrapRepoErr(r.inner.Create(ctx, user))
}

func (r *wrappingUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := r.inner.GetByID(ctx, id)
	return user, wrapRepoErr(err)
}

func (r *wrappingUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := r.inner.GetByEmail(ctx, email)
	return user, wrapRepoErr(err)
}

func wrapRepoErr(err error) error {
	if err != nil {
		return fmt.Errorf("query users: %w", err)
	}
	return nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}
