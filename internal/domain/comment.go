package domain

import "time"

// Comment is a discussion entry on a ticket.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}
