package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User models a registered identity. Records are never physically removed:
// IsAvailable=false marks a soft-deleted user.
type User struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	CPF           string    `json:"cpf"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	IsAvailable   bool      `json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// NormalizeName returns the canonical upper-case form of a display name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NormalizeEmail returns the canonical upper-case form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToUpper(strings.TrimSpace(email))
}

// LoginIdentifierType selects which field a login identifier is matched against.
type LoginIdentifierType int

const (
	LoginByCPF   LoginIdentifierType = 1
	LoginByEmail LoginIdentifierType = 2
)

// ParseLoginIdentifierType accepts the numeric codes ("1", "2") and the
// names ("cpf", "email"), case-insensitively.
func ParseLoginIdentifierType(s string) (LoginIdentifierType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "cpf":
		return LoginByCPF, nil
	case "2", "email":
		return LoginByEmail, nil
	}
	return 0, ErrInvalidIdentifierKind
}

func (t LoginIdentifierType) String() string {
	switch t {
	case LoginByCPF:
		return "cpf"
	case LoginByEmail:
		return "email"
	}
	return "unknown"
}
