package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/access"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// RatingService handles the post-resolution satisfaction workflow. A ticket
// carries at most one rating row; repeated submissions update it in place.
type RatingService struct {
	tickets    repository.TicketRepository
	ratings    repository.RatingRepository
	tx         repository.TxManager
	dispatcher events.Dispatcher
}

// RatingDependencies bundles collaborators for the rating service.
type RatingDependencies struct {
	TicketRepo repository.TicketRepository
	RatingRepo repository.RatingRepository
	TxManager  repository.TxManager
	Dispatcher events.Dispatcher
}

// NewRatingService constructs the service.
func NewRatingService(deps RatingDependencies) *RatingService {
	return &RatingService{
		tickets:    deps.TicketRepo,
		ratings:    deps.RatingRepo,
		tx:         deps.TxManager,
		dispatcher: deps.Dispatcher,
	}
}

// RateTicket records or overwrites the owner's satisfaction score for a
// terminal ticket. The latest score is mirrored onto the ticket row so list
// queries never need a join.
func (s *RatingService) RateTicket(ctx context.Context, actor *domain.User, ticketID string, score int, feedback string) (*domain.Rating, error) {
	if score < 1 || score > 5 {
		return nil, apperrors.NewValidationError("score must be between 1 and 5", map[string]any{"score": score})
	}
	feedback = strings.TrimSpace(feedback)

	var rating *domain.Rating
	if err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		ticket, err := s.tickets.GetByID(txCtx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return err
		}
		if !ticket.Status.Terminal() {
			return apperrors.NewInvalidState("only resolved or closed tickets can be rated", map[string]any{"status": ticket.Status})
		}
		if !access.CanRate(actor.Role, ticket.OwnerID == actor.ID, ticket.Status) {
			return apperrors.NewForbidden("only the ticket owner may rate it")
		}

		existing, err := s.ratings.GetByTicket(txCtx, ticketID)
		switch {
		case err == nil:
			existing.Score = score
			existing.Feedback = feedback
			if err := s.ratings.Update(txCtx, existing); err != nil {
				return err
			}
			rating = existing
		case errors.Is(err, pgx.ErrNoRows):
			rating = &domain.Rating{TicketID: ticketID, Score: score, Feedback: feedback}
			if err := s.ratings.Create(txCtx, rating); err != nil {
				return err
			}
		default:
			return err
		}

		ticket.Rating = &rating.Score
		if ticket.ResolvedAt == nil {
			now := time.Now()
			ticket.ResolvedAt = &now
		}
		return s.tickets.Update(txCtx, ticket)
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventTicketRated,
			TicketID:  ticketID,
			Actor:     actorOf(actor),
			Timestamp: time.Now(),
			Payload:   events.TicketRatedPayload{Score: rating.Score},
		})
	}
	return rating, nil
}

// GetRating returns the rating for a ticket the actor may view.
func (s *RatingService) GetRating(ctx context.Context, actor *domain.User, ticketID string) (*domain.Rating, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !access.CanViewTicket(actor.Role, ticket.OwnerID == actor.ID, isAssignee(ticket, actor.ID)) {
		return nil, apperrors.NewForbidden("access denied")
	}

	rating, err := s.ratings.GetByTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("rating", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return rating, nil
}
