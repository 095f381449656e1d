package domain

import "time"

// AuditAction names a user lifecycle operation recorded in the audit trail.
type AuditAction string

const (
	AuditLogin    AuditAction = "login"
	AuditRefresh  AuditAction = "refresh"
	AuditLogout   AuditAction = "logout"
	AuditRegister AuditAction = "register"
	AuditRead     AuditAction = "read"
	AuditUpdate   AuditAction = "update"
	AuditDelete   AuditAction = "delete"
)

// AuditOutcome is the result of an audited operation.
type AuditOutcome string

const (
	OutcomeSuccess AuditOutcome = "success"
	OutcomeDenied  AuditOutcome = "denied"
	OutcomeFailure AuditOutcome = "failure"
)

// AuditEvent records who attempted what. UserID is the subject of the
// operation when known; ActorID is the requester, empty for anonymous calls.
type AuditEvent struct {
	UserID  string
	ActorID string
	Action  AuditAction
	Outcome AuditOutcome
	Reason  string
	At      time.Time
}
