package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fasttech/usuarios/internal/core/authz"
	"github.com/fasttech/usuarios/internal/core/domain"
)

// LoginInput carries the credentials presented for a token request.
type LoginInput struct {
	Identifier     string
	PasswordBase64 string
	IdentifierType domain.LoginIdentifierType
}

// RegisterInput carries the fields of a new user. PasswordBase64 is the
// transport-encoded password.
type RegisterInput struct {
	Name           string
	CPF            string
	Email          string
	PasswordBase64 string
	Role           domain.Role
}

// UpdateInput carries the fields to change. Empty fields are left as is.
type UpdateInput struct {
	ID             uuid.UUID
	Name           string
	CPF            string
	Email          string
	PasswordBase64 string
}

// TokenPair is returned on successful login or refresh.
type TokenPair struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// UserService defines the user lifecycle use cases.
type UserService interface {
	Login(ctx context.Context, in LoginInput) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID, requester authz.Requester) (*domain.User, error)
	Update(ctx context.Context, in UpdateInput, requester authz.Requester) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID, requester authz.Requester) (*domain.User, error)
}
