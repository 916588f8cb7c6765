package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestCanViewTicket(t *testing.T) {
	assert.True(t, CanViewTicket(domain.RoleAdmin, false, false))
	assert.True(t, CanViewTicket(domain.RoleAgent, false, false))
	assert.True(t, CanViewTicket(domain.RoleUser, true, false))
	assert.True(t, CanViewTicket(domain.RoleUser, false, true))
	assert.False(t, CanViewTicket(domain.RoleUser, false, false))
}

func TestCanListAll(t *testing.T) {
	assert.True(t, CanListAll(domain.RoleAdmin))
	assert.True(t, CanListAll(domain.RoleAgent))
	assert.False(t, CanListAll(domain.RoleUser))
}

func TestCanAssign(t *testing.T) {
	assert.True(t, CanAssign(domain.RoleAdmin))
	assert.True(t, CanAssign(domain.RoleAgent))
	assert.False(t, CanAssign(domain.RoleUser))
}

func TestCanChangeStatus(t *testing.T) {
	// Staff may set any status, owner or not.
	for _, status := range []domain.TicketStatus{
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
	} {
		assert.True(t, CanChangeStatus(domain.RoleAgent, false, status), string(status))
		assert.True(t, CanChangeStatus(domain.RoleAdmin, false, status), string(status))
	}

	// Owners may only resolve or close their own tickets.
	assert.True(t, CanChangeStatus(domain.RoleUser, true, domain.TicketStatusResolved))
	assert.True(t, CanChangeStatus(domain.RoleUser, true, domain.TicketStatusClosed))
	assert.False(t, CanChangeStatus(domain.RoleUser, true, domain.TicketStatusInProgress))
	assert.False(t, CanChangeStatus(domain.RoleUser, true, domain.TicketStatusOpen))

	// Non-owners without a staff role can do nothing.
	assert.False(t, CanChangeStatus(domain.RoleUser, false, domain.TicketStatusResolved))
}

func TestCanRate(t *testing.T) {
	assert.True(t, CanRate(domain.RoleUser, true, domain.TicketStatusResolved))
	assert.True(t, CanRate(domain.RoleUser, true, domain.TicketStatusClosed))
	assert.False(t, CanRate(domain.RoleUser, true, domain.TicketStatusOpen))
	assert.False(t, CanRate(domain.RoleUser, false, domain.TicketStatusResolved))
	// Even staff cannot rate tickets they do not own.
	assert.False(t, CanRate(domain.RoleAdmin, false, domain.TicketStatusClosed))
}
