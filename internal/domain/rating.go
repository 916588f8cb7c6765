package domain

import "time"

// Rating is the single satisfaction score attached to a resolved ticket.
// At most one row exists per ticket; the workflow enforces find-or-create.
type Rating struct {
	ID        string
	TicketID  string
	Score     int
	Feedback  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
