package dto

import (
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/triage"
)

// TriagePredictRequest payload.
type TriagePredictRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TriageCreateTicketRequest payload for triage-assisted creation.
type TriageCreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TriagePredictionResponse mirrors the engine output.
type TriagePredictionResponse struct {
	Category             string                `json:"category"`
	SuggestedPriority    domain.TicketPriority `json:"suggested_priority"`
	UrgencyScore         float64               `json:"urgency_score"`
	SuggestedAssigneeID  *string               `json:"suggested_assignee_id"`
	Confidence           float64               `json:"confidence"`
	Keywords             []string              `json:"keywords"`
	SLABreachProbability float64               `json:"sla_breach_probability"`
}

// PredictionFromEngine maps an engine prediction to its response shape.
func PredictionFromEngine(p triage.Prediction) TriagePredictionResponse {
	return TriagePredictionResponse{
		Category:             p.Category,
		SuggestedPriority:    p.SuggestedPriority,
		UrgencyScore:         p.UrgencyScore,
		SuggestedAssigneeID:  p.SuggestedAssigneeID,
		Confidence:           p.Confidence,
		Keywords:             p.Keywords,
		SLABreachProbability: p.SLABreachProbability,
	}
}
