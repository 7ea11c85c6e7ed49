package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/miniticket/internal/domain"
)

// TicketHistoryRepository records administrative status changes for audit.
type TicketHistoryRepository interface {
	Create(ctx context.Context, entry *domain.TicketStatusChange) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketStatusChange, error)
}

type ticketHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketHistoryRepository instantiates the repository.
func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{pool: pool}
}

func (r *ticketHistoryRepository) Create(ctx context.Context, entry *domain.TicketStatusChange) error {
	const query = `
        INSERT INTO ticket_status_changes (ticket_id, old_status, new_status, changed_by_user_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.OldStatus,
		entry.NewStatus,
		entry.ChangedByID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketStatusChange, error) {
	const query = `
        SELECT id, ticket_id, old_status, new_status, changed_by_user_id, created_at
        FROM ticket_status_changes WHERE ticket_id=$1
        ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketStatusChange
	for rows.Next() {
		var entry domain.TicketStatusChange
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.ChangedByID,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
