package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketRated         EventType = "ticket_rated"
	EventTriageLogged        EventType = "triage_logged"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Priority     domain.TicketPriority `json:"priority"`
	Title        string                `json:"title"`
	AssigneeID   *string               `json:"assignee_id,omitempty"`
	TriageOrigin bool                  `json:"triage_origin"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID string `json:"assignee_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketRatedPayload payload.
type TicketRatedPayload struct {
	Score int `json:"score"`
}

// TriageLoggedPayload payload.
type TriageLoggedPayload struct {
	PredictedPriority domain.TicketPriority `json:"predicted_priority"`
	Category          string                `json:"category"`
	AssigneeID        *string               `json:"assignee_id,omitempty"`
}
