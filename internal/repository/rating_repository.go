package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// RatingRepository persists ticket satisfaction ratings.
type RatingRepository interface {
	GetByTicket(ctx context.Context, ticketID string) (*domain.Rating, error)
	Create(ctx context.Context, rating *domain.Rating) error
	Update(ctx context.Context, rating *domain.Rating) error
	Average(ctx context.Context) (avg float64, count int64, err error)
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository constructs repository.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.Rating, error) {
	const query = `
        SELECT id, ticket_id, score, feedback, created_at, updated_at
        FROM ticket_ratings WHERE ticket_id=$1`
	var rating domain.Rating
	if err := conn(ctx, r.pool).QueryRow(ctx, query, ticketID).Scan(
		&rating.ID,
		&rating.TicketID,
		&rating.Score,
		&rating.Feedback,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	const query = `
        INSERT INTO ticket_ratings (ticket_id, score, feedback)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		rating.TicketID,
		rating.Score,
		rating.Feedback,
	).Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)
}

func (r *ratingRepository) Update(ctx context.Context, rating *domain.Rating) error {
	const query = `
        UPDATE ticket_ratings SET score=$1, feedback=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query, rating.Score, rating.Feedback, rating.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ratingRepository) Average(ctx context.Context) (float64, int64, error) {
	const query = `SELECT COALESCE(AVG(score), 0), COUNT(*) FROM ticket_ratings`
	var avg float64
	var count int64
	if err := conn(ctx, r.pool).QueryRow(ctx, query).Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
