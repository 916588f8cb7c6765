package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/triage"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TriageService wraps the keyword heuristic engine and adds the pieces the
// engine itself stays ignorant of: the live staff pool for assignee
// suggestions and the audit log of every prediction served.
type TriageService struct {
	users      repository.UserRepository
	logs       repository.TriageLogRepository
	picker     triage.AssigneePicker
	dispatcher events.Dispatcher
}

// TriageDependencies bundles collaborators for the triage service.
type TriageDependencies struct {
	UserRepo   repository.UserRepository
	LogRepo    repository.TriageLogRepository
	Picker     triage.AssigneePicker
	Dispatcher events.Dispatcher
}

// NewTriageService constructs the service.
func NewTriageService(deps TriageDependencies) *TriageService {
	picker := deps.Picker
	if picker == nil {
		picker = triage.NewRandomPicker()
	}
	return &TriageService{
		users:      deps.UserRepo,
		logs:       deps.LogRepo,
		picker:     picker,
		dispatcher: deps.Dispatcher,
	}
}

// Predict runs the heuristic engine on the given text and, when staff are
// available, picks an assignee suggestion from the current pool. An empty
// pool yields a prediction with no suggestion rather than an error.
func (s *TriageService) Predict(ctx context.Context, title, description string) (triage.Prediction, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return triage.Prediction{}, apperrors.NewValidationError("title or description required", nil)
	}

	prediction := triage.Predict(title, description)

	pool, err := s.users.ListByRoles(ctx, domain.RoleAgent, domain.RoleAdmin)
	if err != nil {
		return triage.Prediction{}, apperrors.MapError(err)
	}
	if suggested := triage.SelectAssignee(pool, prediction.SuggestedPriority, s.picker); suggested != nil {
		prediction.SuggestedAssigneeID = &suggested.ID
	}
	return prediction, nil
}

// LogPrediction records a served prediction for audit. The ticket reference
// is optional because standalone predictions precede ticket creation.
func (s *TriageService) LogPrediction(ctx context.Context, ticketID *string, title, description string, prediction triage.Prediction) (*domain.TriageLog, error) {
	log := &domain.TriageLog{
		TicketID:          ticketID,
		InputTitle:        title,
		InputDescription:  description,
		PredictedPriority: prediction.SuggestedPriority,
		PredictedCategory: prediction.Category,
		UrgencyScore:      prediction.UrgencyScore,
		Confidence:        prediction.Confidence,
		AssigneeID:        prediction.SuggestedAssigneeID,
	}
	if err := s.logs.Create(ctx, log); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		var ref string
		if ticketID != nil {
			ref = *ticketID
		}
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventTriageLogged,
			TicketID:  ref,
			Timestamp: time.Now(),
			Payload: events.TriageLoggedPayload{
				PredictedPriority: prediction.SuggestedPriority,
				Category:          prediction.Category,
				AssigneeID:        prediction.SuggestedAssigneeID,
			},
		})
	}
	return log, nil
}

// History returns the prediction audit trail for a ticket.
func (s *TriageService) History(ctx context.Context, ticketID string) ([]domain.TriageLog, error) {
	logs, err := s.logs.ListByTicket(ctx, ticketID)
	return logs, apperrors.MapError(err)
}

// ModelInfo describes the heuristic model behind the predict endpoint.
func (s *TriageService) ModelInfo() map[string]any {
	return map[string]any{
		"model_type":      "keyword-heuristic",
		"version":         "1.0",
		"categories":      triage.Categories(),
		"urgency_signals": triage.UrgencySignalCount(),
	}
}
