// Package access holds the role-capability predicates. These are the single
// source of truth for authorization decisions: services consult them and never
// compare roles directly.
package access

import "github.com/spec-kit/helpdesk/internal/domain"

// IsPrivileged reports whether the role has staff-level access.
func IsPrivileged(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleAgent
}

// CanViewTicket allows staff, the owner, or the current assignee to read a
// ticket and its comments/attachments.
func CanViewTicket(role domain.Role, isOwner, isAssignee bool) bool {
	return IsPrivileged(role) || isOwner || isAssignee
}

// CanListAll allows staff to list every ticket; everyone else sees only
// tickets they own.
func CanListAll(role domain.Role) bool {
	return IsPrivileged(role)
}

// CanAssign restricts assignment to staff.
func CanAssign(role domain.Role) bool {
	return IsPrivileged(role)
}

// CanChangeStatus allows staff to set any status. A non-privileged owner may
// only move their own ticket to RESOLVED or CLOSED, regardless of the current
// status; owners cannot reopen or push tickets through workflow states.
func CanChangeStatus(role domain.Role, isOwner bool, requested domain.TicketStatus) bool {
	if IsPrivileged(role) {
		return true
	}
	if !isOwner {
		return false
	}
	return requested.Terminal()
}

// CanRate allows only the owner of a resolved or closed ticket to rate it.
func CanRate(_ domain.Role, isOwner bool, status domain.TicketStatus) bool {
	return isOwner && status.Terminal()
}
