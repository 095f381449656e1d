package domain

import "errors"

var (
	ErrInvalidPasswordEncoding = errors.New("password is not valid base64 text")
	ErrInvalidCPF              = errors.New("invalid cpf")
	ErrInvalidRole             = errors.New("invalid role")
	ErrInvalidIdentifierKind   = errors.New("invalid login identifier type")
	ErrInvalidIdentifier       = errors.New("malformed user identifier")
	ErrUserExists              = errors.New("user already exists")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidToken            = errors.New("invalid token")
	ErrForbidden               = errors.New("access forbidden")
	ErrAdminRegistration       = errors.New("admin accounts cannot be registered")
	ErrUserNotFound            = errors.New("user not found")
)

// ErrorKind is the closed classification callers branch on.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindDecoding
	KindInvalidIdentifier
	KindValidation
	KindConflict
	KindAuthentication
	KindAuthorization
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindDecoding:
		return "decoding"
	case KindInvalidIdentifier:
		return "invalid_identifier"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	}
	return "internal"
}

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidPasswordEncoding, KindDecoding},
	{ErrInvalidCPF, KindInvalidIdentifier},
	{ErrInvalidIdentifier, KindInvalidIdentifier},
	{ErrInvalidRole, KindValidation},
	{ErrInvalidIdentifierKind, KindValidation},
	{ErrUserExists, KindConflict},
	{ErrInvalidCredentials, KindAuthentication},
	{ErrInvalidToken, KindAuthentication},
	{ErrForbidden, KindAuthorization},
	{ErrAdminRegistration, KindAuthorization},
	{ErrUserNotFound, KindNotFound},
}

// KindOf classifies err. Anything not derived from a domain sentinel,
// including collaborator failures, is KindInternal.
func KindOf(err error) ErrorKind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
