package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/access"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// CommentService manages the ticket conversation thread.
type CommentService struct {
	comments repository.CommentRepository
	tickets  repository.TicketRepository
}

// CommentDependencies bundles collaborators for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	TicketRepo  repository.TicketRepository
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{comments: deps.CommentRepo, tickets: deps.TicketRepo}
}

// AddComment appends a comment to a ticket the actor may view.
func (s *CommentService) AddComment(ctx context.Context, actor *domain.User, ticketID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("comment content required", nil)
	}
	if _, err := s.viewableTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{TicketID: ticketID, AuthorID: actor.ID, Content: content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// ListComments returns the thread in chronological order.
func (s *CommentService) ListComments(ctx context.Context, actor *domain.User, ticketID string) ([]domain.Comment, error) {
	if _, err := s.viewableTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	return comments, apperrors.MapError(err)
}

func (s *CommentService) viewableTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
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
	return ticket, nil
}
