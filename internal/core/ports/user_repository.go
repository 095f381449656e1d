package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fasttech/usuarios/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
// Lookups that return a single record report domain.ErrUserNotFound when
// nothing matches.
type UserRepository interface {
	// Create inserts a new record. A storage-level uniqueness violation on
	// email or cpf is reported as domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) error
	// Update replaces the mutable fields of an existing record and refreshes
	// its update timestamp.
	Update(ctx context.Context, user *domain.User) error
	// SoftDelete flips the availability flag to false.
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindActiveByCPF(ctx context.Context, cpf string) (*domain.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsActiveByEmailOrCPF(ctx context.Context, email, cpf string) (bool, error)
}
