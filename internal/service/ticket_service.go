package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/access"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/sla"
	"github.com/spec-kit/helpdesk/internal/triage"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketService coordinates the ticket lifecycle: creation, assignment and
// status transitions. Every mutating operation runs read-then-write inside a
// transaction so concurrent mutations on the same ticket never observe or
// persist a torn state.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	tx         repository.TxManager
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	TxManager  repository.TxManager
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// TicketSearchInput describes search parameters.
type TicketSearchInput struct {
	Query      string
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	AssigneeID *string
	Page       int
	PageSize   int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		tx:         deps.TxManager,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket opens a new ticket for the acting user. Urgency score and SLA
// deadline derive from the declared priority; both are computed here and
// never re-derived.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		OwnerID:      actor.ID,
		Title:        title,
		Description:  description,
		Status:       domain.TicketStatusOpen,
		Priority:     priority,
		UrgencyScore: sla.UrgencyScore(priority),
		SLADueAt:     sla.DueAt(priority, time.Now()),
	}

	if err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		return s.tickets.Create(txCtx, ticket)
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketCreatedPayload{
			Priority: ticket.Priority,
			Title:    ticket.Title,
		},
	})
	return ticket, nil
}

// CreateTicketWithTriage opens a ticket from a previously computed prediction:
// the suggested priority drives the SLA derivation and the suggested assignee,
// when present, is pre-filled. A missing suggestion simply means no assignee.
func (s *TicketService) CreateTicketWithTriage(ctx context.Context, actor *domain.User, input TicketCreateInput, prediction triage.Prediction) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	priority := prediction.SuggestedPriority
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("prediction carries unknown priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		OwnerID:      actor.ID,
		Title:        title,
		Description:  description,
		Status:       domain.TicketStatusOpen,
		Priority:     priority,
		UrgencyScore: sla.UrgencyScore(priority),
		SLADueAt:     sla.DueAt(priority, time.Now()),
	}

	if prediction.SuggestedAssigneeID != nil {
		assignee, err := s.users.GetByID(ctx, *prediction.SuggestedAssigneeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("user", map[string]any{"user_id": *prediction.SuggestedAssigneeID})
			}
			return nil, apperrors.MapError(err)
		}
		ticket.AssigneeID = &assignee.ID
	}

	if err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		return s.tickets.Create(txCtx, ticket)
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketCreatedPayload{
			Priority:     ticket.Priority,
			Title:        ticket.Title,
			AssigneeID:   ticket.AssigneeID,
			TriageOrigin: true,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket the actor is allowed to see.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !access.CanViewTicket(actor.Role, ticket.OwnerID == actor.ID, isAssignee(ticket, actor.ID)) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// ListTickets returns every ticket for staff and owned tickets for everyone else.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.Ticket, error) {
	if access.CanListAll(actor.Role) {
		tickets, err := s.tickets.ListAll(ctx, limit, offset)
		return tickets, apperrors.MapError(err)
	}
	tickets, err := s.tickets.ListByOwner(ctx, actor.ID, limit, offset)
	return tickets, apperrors.MapError(err)
}

// SearchTickets runs a filtered, paginated search scoped to the actor's
// visibility.
func (s *TicketService) SearchTickets(ctx context.Context, actor *domain.User, input TicketSearchInput) ([]domain.Ticket, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, 0, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := input.Page
	if page < 0 {
		page = 0
	}

	filter := repository.TicketFilter{
		AssigneeID: input.AssigneeID,
		Status:     input.Status,
		Priority:   input.Priority,
		Limit:      pageSize,
		Offset:     page * pageSize,
	}
	if q := strings.TrimSpace(input.Query); q != "" {
		filter.SearchTerm = &q
	}
	if !access.CanListAll(actor.Role) {
		ownerID := actor.ID
		filter.OwnerID = &ownerID
	}

	tickets, total, err := s.tickets.Search(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return tickets, total, nil
}

// AssignTicket overwrites the current assignee. Assignment is independent of
// status and keeps no history.
func (s *TicketService) AssignTicket(ctx context.Context, actor *domain.User, ticketID, assigneeID string) (*domain.Ticket, error) {
	if !access.CanAssign(actor.Role) {
		return nil, apperrors.NewForbidden("insufficient role for assignment")
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}

	var ticket *domain.Ticket
	if err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		ticket, err = s.fetchTicket(txCtx, ticketID)
		if err != nil {
			return err
		}
		ticket.AssigneeID = &assignee.ID
		return s.tickets.Update(txCtx, ticket)
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload:  events.TicketAssignedPayload{AssigneeID: assignee.ID},
	})
	return ticket, nil
}

// UpdateStatus applies a status transition. Staff may set any status; a
// non-privileged owner may only move their ticket to RESOLVED or CLOSED. The
// first transition into a terminal status stamps ResolvedAt; re-entering a
// terminal status never moves the timestamp.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	var ticket *domain.Ticket
	var oldStatus domain.TicketStatus
	if err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		ticket, err = s.fetchTicket(txCtx, ticketID)
		if err != nil {
			return err
		}
		if !access.CanChangeStatus(actor.Role, ticket.OwnerID == actor.ID, newStatus) {
			return apperrors.NewForbidden("status change not permitted")
		}

		oldStatus = ticket.Status
		ticket.Status = newStatus
		if newStatus.Terminal() && ticket.ResolvedAt == nil {
			now := time.Now()
			ticket.ResolvedAt = &now
		}
		return s.tickets.Update(txCtx, ticket)
	}); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		},
	})
	return ticket, nil
}

func (s *TicketService) fetchTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
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

func isAssignee(ticket *domain.Ticket, userID string) bool {
	return ticket.AssigneeID != nil && *ticket.AssigneeID == userID
}

func actorOf(user *domain.User) events.Actor {
	return events.Actor{UserID: user.ID, Role: user.Role}
}
