package domain

import "time"

// TriageLog is an immutable audit record of a triage prediction, optionally
// associated with the ticket it informed and the assignee it suggested.
type TriageLog struct {
	ID                string
	TicketID          *string
	InputTitle        string
	InputDescription  string
	PredictedPriority TicketPriority
	PredictedCategory string
	UrgencyScore      float64
	Confidence        float64
	AssigneeID        *string
	CreatedAt         time.Time
}
