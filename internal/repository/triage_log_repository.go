package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TriageLogRepository stores immutable prediction audit records.
type TriageLogRepository interface {
	Create(ctx context.Context, log *domain.TriageLog) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TriageLog, error)
}

type triageLogRepository struct {
	pool *pgxpool.Pool
}

// NewTriageLogRepository builds repository.
func NewTriageLogRepository(pool *pgxpool.Pool) TriageLogRepository {
	return &triageLogRepository{pool: pool}
}

func (r *triageLogRepository) Create(ctx context.Context, log *domain.TriageLog) error {
	const query = `
        INSERT INTO triage_logs (ticket_id, input_title, input_description, predicted_priority, predicted_category, urgency_score, confidence, assignee_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		log.TicketID,
		log.InputTitle,
		log.InputDescription,
		log.PredictedPriority,
		log.PredictedCategory,
		log.UrgencyScore,
		log.Confidence,
		log.AssigneeID,
	).Scan(&log.ID, &log.CreatedAt)
}

func (r *triageLogRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TriageLog, error) {
	const query = `
        SELECT id, ticket_id, input_title, input_description, predicted_priority, predicted_category, urgency_score, confidence, assignee_id, created_at
        FROM triage_logs WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TriageLog
	for rows.Next() {
		var log domain.TriageLog
		if err := rows.Scan(
			&log.ID,
			&log.TicketID,
			&log.InputTitle,
			&log.InputDescription,
			&log.PredictedPriority,
			&log.PredictedCategory,
			&log.UrgencyScore,
			&log.Confidence,
			&log.AssigneeID,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	return result, rows.Err()
}
