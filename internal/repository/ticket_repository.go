package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketFilter captures search parameters for ticket queries.
type TicketFilter struct {
	OwnerID    *string
	AssigneeID *string
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	SearchTerm *string
	Limit      int
	Offset     int
}

// TicketStats aggregates reporting figures over all tickets.
type TicketStats struct {
	OpenCount          int64
	AvgResolutionHours float64
	SLABreaches        int64
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Ticket, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Ticket, error)
	Search(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int64, error)
	CollectStats(ctx context.Context) (*TicketStats, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, owner_id, assignee_id, title, description, status, priority,
               urgency_score, sla_due_at, resolved_at, rating, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (owner_id, assignee_id, title, description, status, priority, urgency_score, sla_due_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		ticket.OwnerID,
		ticket.AssigneeID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.UrgencyScore,
		ticket.SLADueAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET assignee_id=$1, status=$2, resolved_at=COALESCE(resolved_at, $3), rating=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query,
		ticket.AssigneeID,
		ticket.Status,
		ticket.ResolvedAt,
		ticket.Rating,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.OwnerID,
		&ticket.AssigneeID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.UrgencyScore,
		&ticket.SLADueAt,
		&ticket.ResolvedAt,
		&ticket.Rating,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	tickets, _, err := r.Search(ctx, TicketFilter{Limit: limit, Offset: offset})
	return tickets, err
}

func (r *ticketRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Ticket, error) {
	tickets, _, err := r.Search(ctx, TicketFilter{OwnerID: &ownerID, Limit: limit, Offset: offset})
	return tickets, err
}

func (r *ticketRepository) Search(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM tickets WHERE " + where
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, where, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *ticketRepository) CollectStats(ctx context.Context) (*TicketStats, error) {
	const query = `
        SELECT
            COUNT(*) FILTER (WHERE status IN ('OPEN','IN_PROGRESS')),
            COALESCE(AVG(EXTRACT(EPOCH FROM resolved_at - created_at) / 3600.0) FILTER (WHERE resolved_at IS NOT NULL), 0),
            COUNT(*) FILTER (WHERE status <> 'CLOSED' AND sla_due_at < NOW())
        FROM tickets`
	var stats TicketStats
	if err := conn(ctx, r.pool).QueryRow(ctx, query).Scan(
		&stats.OpenCount,
		&stats.AvgResolutionHours,
		&stats.SLABreaches,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.OwnerID,
			&ticket.AssigneeID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.Priority,
			&ticket.UrgencyScore,
			&ticket.SLADueAt,
			&ticket.ResolvedAt,
			&ticket.Rating,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
