// Package sla maps ticket priority onto urgency scores and resolution
// deadlines. The mapping runs exactly once at ticket creation; deadlines are
// never recomputed even if downstream tooling changes priority.
package sla

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UrgencyScore returns the 1-4 urgency band for a priority.
func UrgencyScore(priority domain.TicketPriority) int {
	switch priority {
	case domain.TicketPriorityLow:
		return 1
	case domain.TicketPriorityMedium:
		return 2
	case domain.TicketPriorityHigh:
		return 3
	case domain.TicketPriorityCritical:
		return 4
	}
	return 1
}

// Hours returns the resolution window for a priority.
func Hours(priority domain.TicketPriority) int {
	switch priority {
	case domain.TicketPriorityLow:
		return 72
	case domain.TicketPriorityMedium:
		return 24
	case domain.TicketPriorityHigh:
		return 8
	case domain.TicketPriorityCritical:
		return 2
	}
	return 72
}

// DueAt computes the SLA deadline from the creation instant.
func DueAt(priority domain.TicketPriority, createdAt time.Time) time.Time {
	return createdAt.Add(time.Duration(Hours(priority)) * time.Hour)
}
