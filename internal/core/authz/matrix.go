// Package authz decides whether a requester may act on a target user record.
// Decisions are pure: no I/O and nothing is persisted.
package authz

import (
	"strings"

	"github.com/google/uuid"

	"github.com/fasttech/usuarios/internal/core/domain"
)

// Operation is a protected user-management operation.
type Operation string

const (
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Requester is the authenticated caller, parsed once at the boundary.
type Requester struct {
	ID   uuid.UUID
	Role domain.Role
}

// NewRequester parses the requester's claimed id and role. A malformed id
// fails with domain.ErrInvalidIdentifier rather than silently never matching.
func NewRequester(id, role string) (Requester, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return Requester{}, domain.ErrInvalidIdentifier
	}
	r, err := domain.ParseRole(role)
	if err != nil {
		return Requester{}, err
	}
	return Requester{ID: uid, Role: r}, nil
}

// Target is the record being acted on. Role is ignored for reads.
type Target struct {
	ID   uuid.UUID
	Role domain.Role
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// Decide evaluates op for requester against target.
func Decide(op Operation, target Target, requester Requester) Decision {
	self := requester.ID == target.ID
	switch op {
	case OpRead:
		if self {
			return allow("own record")
		}
		if requester.Role.IsStaffSupervisor() {
			return allow("supervisor role")
		}
		return deny("can only read own record")
	case OpUpdate, OpDelete:
		return decideWrite(target, requester, self)
	}
	return deny("unknown operation")
}

// decideWrite is shared by update and delete.
func decideWrite(target Target, requester Requester, self bool) Decision {
	switch target.Role {
	case domain.RoleAdmin:
		return deny("admin records are protected")
	case domain.RoleCustomer:
		if requester.Role.IsStaffSupervisor() {
			return allow("supervisor role")
		}
		if self {
			return allow("own customer record")
		}
		return deny("customers may only modify their own record")
	default:
		if requester.Role.IsStaffSupervisor() {
			return allow("supervisor role")
		}
		return deny("staff records require admin or manager")
	}
}
