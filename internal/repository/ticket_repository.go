package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketRepository encapsulates ticket persistence. The orchestrator
// depends only on this interface; backends are interchangeable.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error)
	UpdateAnalysis(ctx context.Context, id string, analysis domain.TicketAnalysis) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) (int64, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the Postgres-backed repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, email, subject, message, status, sentiment, intent, ai_response, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (email, subject, message, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Email,
		ticket.Subject,
		ticket.Message,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id::text=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET status=$1, updated_at=NOW()
        WHERE id::text=$2
        RETURNING ` + ticketColumns
	return r.fetchSingle(ctx, query, status, id)
}

// UpdateAnalysis writes the resolved status and the full analysis triple in
// one statement so no resolved ticket is ever observed partially analyzed.
func (r *ticketRepository) UpdateAnalysis(ctx context.Context, id string, analysis domain.TicketAnalysis) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET status=$1, sentiment=$2, intent=$3, ai_response=$4, updated_at=NOW()
        WHERE id::text=$5
        RETURNING ` + ticketColumns
	return r.fetchSingle(ctx, query, domain.TicketStatusResolved, analysis.Sentiment, analysis.Intent, analysis.Response, id)
}

func (r *ticketRepository) Delete(ctx context.Context, id string) (int64, error) {
	const query = `DELETE FROM tickets WHERE id::text=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *ticketRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	const query = `DELETE FROM tickets WHERE id::text = ANY($1)`
	cmd, err := r.pool.Exec(ctx, query, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *ticketRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets`
	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE status=$1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.Email,
		&ticket.Subject,
		&ticket.Message,
		&ticket.Status,
		&ticket.Sentiment,
		&ticket.Intent,
		&ticket.AIResponse,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Email,
			&ticket.Subject,
			&ticket.Message,
			&ticket.Status,
			&ticket.Sentiment,
			&ticket.Intent,
			&ticket.AIResponse,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
