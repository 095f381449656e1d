package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fasttech/usuarios/internal/core/credential"
	"github.com/fasttech/usuarios/internal/core/domain"
	"github.com/fasttech/usuarios/internal/core/ports"
)

// AdminSeed describes the bootstrap administrator. Password is plaintext
// configuration, not transport-encoded.
type AdminSeed struct {
	Name     string
	Email    string
	CPF      string
	Password string
}

// EnsureAdmin creates the administrator account unless an available user
// already owns its email. It is the only path that creates Admin records.
// The returned bool reports whether a record was created.
func (s *UserService) EnsureAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	email := domain.NormalizeEmail(seed.Email)
	_, err := s.repo.FindActiveByEmail(ctx, email)
	switch {
	case err == nil:
		s.log.Debug().Msg("admin account already present")
		return false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return false, fmt.Errorf("seed admin: %w", err)
	}

	user, err := s.newUser(ctx, ports.RegisterInput{
		Name:           seed.Name,
		CPF:            seed.CPF,
		Email:          seed.Email,
		PasswordBase64: credential.Encode(seed.Password),
		Role:           domain.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("admin account created")
	return true, nil
}
