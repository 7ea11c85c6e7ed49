package http

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/miniticket/internal/domain"
)

// memUserRepo is an in-memory UserRepository for handler tests.
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

// memTicketRepo is an in-memory TicketRepository resolving owners through
// the user repo, the way the SQL join does.
type memTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	order   []string
	users   *memUserRepo
	seq     int
}

func newMemTicketRepo(users *memUserRepo) *memTicketRepo {
	return &memTicketRepo{tickets: make(map[string]*domain.Ticket), users: users}
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

func (r *memTicketRepo) ListAllWithOwners(ctx context.Context) ([]domain.TicketWithOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketWithOwner
	for _, id := range r.order {
		item := domain.TicketWithOwner{Ticket: *r.tickets[id]}
		if owner, err := r.users.GetByID(ctx, item.OwnerID); err == nil {
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

// memHistoryRepo is an in-memory TicketHistoryRepository.
type memHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.TicketStatusChange
	seq     int
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
