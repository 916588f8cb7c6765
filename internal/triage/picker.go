package triage

import (
	"math/rand/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// AssigneePicker selects one user from a non-empty candidate pool. The seam
// exists so tests can inject a deterministic picker; production keeps the
// uniform random selection the original workflow shipped with.
type AssigneePicker interface {
	Pick(pool []domain.User) domain.User
}

type randomPicker struct{}

// NewRandomPicker returns a picker choosing uniformly at random.
func NewRandomPicker() AssigneePicker {
	return randomPicker{}
}

func (randomPicker) Pick(pool []domain.User) domain.User {
	return pool[rand.IntN(len(pool))]
}

// SelectAssignee applies the routing rule: the pool is every AGENT or ADMIN;
// HIGH and CRITICAL predictions restrict to the ADMIN subset when one exists.
// An empty pool yields nil rather than an error.
func SelectAssignee(pool []domain.User, priority domain.TicketPriority, picker AssigneePicker) *domain.User {
	candidates := make([]domain.User, 0, len(pool))
	for _, u := range pool {
		if u.Role == domain.RoleAgent || u.Role == domain.RoleAdmin {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if priority == domain.TicketPriorityHigh || priority == domain.TicketPriorityCritical {
		admins := make([]domain.User, 0, len(candidates))
		for _, u := range candidates {
			if u.Role == domain.RoleAdmin {
				admins = append(admins, u)
			}
		}
		if len(admins) > 0 {
			candidates = admins
		}
	}

	chosen := picker.Pick(candidates)
	return &chosen
}
