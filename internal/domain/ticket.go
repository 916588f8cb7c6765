package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Valid reports whether the status is a known lifecycle state.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Terminal reports whether the status marks the ticket as resolved or closed.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// Valid reports whether the priority is a known value.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
//
// OwnerID is immutable after creation; AssigneeID is overwritten on
// reassignment with no history kept. UrgencyScore and SLADueAt are computed
// exactly once at creation and never re-derived. ResolvedAt is stamped the
// first time the ticket reaches RESOLVED or CLOSED and never moves afterward.
type Ticket struct {
	ID           string
	OwnerID      string
	AssigneeID   *string
	Title        string
	Description  string
	Status       TicketStatus
	Priority     TicketPriority
	UrgencyScore int
	SLADueAt     time.Time
	ResolvedAt   *time.Time
	Rating       *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
