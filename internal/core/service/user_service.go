package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fasttech/usuarios/internal/core/authz"
	"github.com/fasttech/usuarios/internal/core/credential"
	"github.com/fasttech/usuarios/internal/core/domain"
	"github.com/fasttech/usuarios/internal/core/ports"
)

// UserService implements registration, login and the protected user
// operations. Expected failures are logged here, where they are classified;
// collaborator failures are wrapped and returned without logging.
type UserService struct {
	repo    ports.UserRepository
	refresh ports.RefreshStore
	tokens  ports.TokenIssuer
	audit   ports.AuditRecorder
	log     zerolog.Logger
	now     func() time.Time
}

func NewUserService(
	repo ports.UserRepository,
	refresh ports.RefreshStore,
	tokens ports.TokenIssuer,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *UserService {
	if audit == nil {
		audit = discardAudit{}
	}
	return &UserService{
		repo:    repo,
		refresh: refresh,
		tokens:  tokens,
		audit:   audit,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type discardAudit struct{}

func (discardAudit) Record(domain.AuditEvent) {}

// dummyHash is compared against when no user matches, so a missing account
// costs the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	h, _ := credential.Hash("fasttech-dummy-password")
	return h
})

// Login verifies the credentials and issues a token pair. An unknown
// identifier and a wrong password both yield domain.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, in ports.LoginInput) (*ports.TokenPair, error) {
	password, err := credential.Decode(in.PasswordBase64)
	if err != nil {
		return nil, err
	}

	user, err := s.findForLogin(ctx, in)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		credential.Verify(password, dummyHash())
		s.loginFailed(in, "", "unknown identifier")
		return nil, domain.ErrInvalidCredentials
	case errors.Is(err, domain.ErrInvalidIdentifierKind):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("login: %w", err)
	}

	if !credential.Verify(password, user.PasswordHash) {
		s.loginFailed(in, user.ID.String(), "password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("role", user.Role.String()).Msg("login succeeded")
	s.record(domain.AuditLogin, domain.OutcomeSuccess, user.ID.String(), user.ID.String(), "")
	return pair, nil
}

func (s *UserService) findForLogin(ctx context.Context, in ports.LoginInput) (*domain.User, error) {
	switch in.IdentifierType {
	case domain.LoginByCPF:
		cpf := domain.NormalizeCPF(in.Identifier)
		if !domain.IsValidCPF(cpf) {
			return nil, domain.ErrUserNotFound
		}
		return s.repo.FindActiveByCPF(ctx, cpf)
	case domain.LoginByEmail:
		return s.repo.FindActiveByEmail(ctx, domain.NormalizeEmail(in.Identifier))
	}
	return nil, domain.ErrInvalidIdentifierKind
}

func (s *UserService) loginFailed(in ports.LoginInput, userID, reason string) {
	s.log.Info().
		Str("identifier_type", in.IdentifierType.String()).
		Str("reason", reason).
		Msg("login failed")
	s.record(domain.AuditLogin, domain.OutcomeFailure, userID, "", reason)
}

// Refresh exchanges a refresh token for a new pair. Each refresh token is
// single use.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		s.log.Info().Err(err).Msg("refresh rejected")
		return nil, err
	}

	subject, err := s.refresh.Consume(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			s.log.Warn().Str("user_id", claims.Subject).Str("jti", claims.ID).Msg("refresh token reused or revoked")
			s.record(domain.AuditRefresh, domain.OutcomeDenied, claims.Subject, claims.Subject, "unknown jti")
			return nil, err
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if subject != claims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", domain.ErrInvalidToken)
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", domain.ErrInvalidToken)
	}
	user, err := s.repo.FindByID(ctx, id)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("%w: subject no longer exists", domain.ErrInvalidToken)
	case err != nil:
		return nil, fmt.Errorf("refresh: %w", err)
	case !user.IsAvailable:
		return nil, fmt.Errorf("%w: subject no longer exists", domain.ErrInvalidToken)
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	s.record(domain.AuditRefresh, domain.OutcomeSuccess, subject, subject, "")
	return pair, nil
}

// Logout revokes a refresh token. Revoking an already unknown token succeeds.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	if err := s.refresh.Revoke(ctx, claims.ID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.record(domain.AuditLogout, domain.OutcomeSuccess, claims.Subject, claims.Subject, "")
	return nil
}

func (s *UserService) issuePair(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	subject := user.ID.String()
	access, err := s.tokens.IssueAccessToken(subject, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(subject)
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Save(ctx, refresh.ID, subject, refresh.ExpiresAt.Sub(refresh.IssuedAt)); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}
	return &ports.TokenPair{
		AccessToken:           access.Token,
		AccessTokenExpiresAt:  access.ExpiresAt,
		RefreshToken:          refresh.Token,
		RefreshTokenExpiresAt: refresh.ExpiresAt,
	}, nil
}

// Register creates a new available user. The Admin role is rejected before
// any persistence call; admins are only seeded.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	role, err := domain.ParseRole(string(in.Role))
	if err != nil {
		return nil, err
	}
	if role == domain.RoleAdmin {
		s.log.Warn().Msg("admin self-registration rejected")
		s.record(domain.AuditRegister, domain.OutcomeDenied, "", "", "admin role")
		return nil, domain.ErrAdminRegistration
	}
	in.Role = role

	user, err := s.newUser(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.log.Info().Msg("registration conflict on insert")
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("role", user.Role.String()).Msg("user registered")
	s.record(domain.AuditRegister, domain.OutcomeSuccess, user.ID.String(), "", "")
	return user, nil
}

// newUser normalizes and validates in, checks uniqueness and hashes the
// password. It is shared with admin seeding, so it does not police roles.
func (s *UserService) newUser(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	cpf, err := domain.ParseCPF(in.CPF)
	if err != nil {
		return nil, err
	}
	password, err := credential.Decode(in.PasswordBase64)
	if err != nil {
		return nil, err
	}
	name := domain.NormalizeName(in.Name)
	email := domain.NormalizeEmail(in.Email)

	exists, err := s.repo.ExistsActiveByEmailOrCPF(ctx, email, cpf)
	if err != nil {
		return nil, fmt.Errorf("register: check existing: %w", err)
	}
	if exists {
		s.log.Info().Msg("registration conflict: email or cpf in use")
		return nil, domain.ErrUserExists
	}

	hash, err := credential.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &domain.User{
		ID:            uuid.New(),
		Name:          name,
		CPF:           cpf,
		Email:         email,
		PasswordHash:  hash,
		Role:          in.Role,
		IsAvailable:   true,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}, nil
}

// GetByID returns the user with id if requester may read it. Reads are
// authorized before the lookup, so a denied caller learns nothing about
// whether the record exists.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID, requester authz.Requester) (*domain.User, error) {
	if err := s.authorize(authz.OpRead, authz.Target{ID: id}, requester); err != nil {
		return nil, err
	}
	user, err := s.findAvailable(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies the non-empty fields of in to an existing user.
func (s *UserService) Update(ctx context.Context, in ports.UpdateInput, requester authz.Requester) (*domain.User, error) {
	user, err := s.findAvailable(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(authz.OpUpdate, authz.Target{ID: user.ID, Role: user.Role}, requester); err != nil {
		return nil, err
	}

	if in.Name != "" {
		user.Name = domain.NormalizeName(in.Name)
	}
	if in.Email != "" {
		email := domain.NormalizeEmail(in.Email)
		if email != user.Email {
			if err := s.ensureUnused(ctx, user.ID, s.repo.FindActiveByEmail, email); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if in.CPF != "" {
		cpf, err := domain.ParseCPF(in.CPF)
		if err != nil {
			return nil, err
		}
		if cpf != user.CPF {
			if err := s.ensureUnused(ctx, user.ID, s.repo.FindActiveByCPF, cpf); err != nil {
				return nil, err
			}
			user.CPF = cpf
		}
	}
	if in.PasswordBase64 != "" {
		password, err := credential.Decode(in.PasswordBase64)
		if err != nil {
			return nil, err
		}
		hash, err := credential.Hash(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.LastUpdatedAt = s.now()

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("requester_id", requester.ID.String()).Msg("user updated")
	s.record(domain.AuditUpdate, domain.OutcomeSuccess, user.ID.String(), requester.ID.String(), "")
	return user, nil
}

// ensureUnused fails with domain.ErrUserExists when value already belongs to
// an available user other than id.
func (s *UserService) ensureUnused(
	ctx context.Context,
	id uuid.UUID,
	find func(context.Context, string) (*domain.User, error),
	value string,
) error {
	other, err := find(ctx, value)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("update user: check existing: %w", err)
	case other.ID != id:
		s.log.Info().Str("user_id", id.String()).Msg("update conflict: email or cpf in use")
		return domain.ErrUserExists
	}
	return nil
}

// Delete soft-deletes the user and returns it with availability cleared.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID, requester authz.Requester) (*domain.User, error) {
	user, err := s.findAvailable(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(authz.OpDelete, authz.Target{ID: user.ID, Role: user.Role}, requester); err != nil {
		return nil, err
	}

	deletedAt := s.now()
	if err := s.repo.SoftDelete(ctx, user.ID, deletedAt); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	user.IsAvailable = false
	user.LastUpdatedAt = deletedAt

	s.log.Info().Str("user_id", user.ID.String()).Str("requester_id", requester.ID.String()).Msg("user deleted")
	s.record(domain.AuditDelete, domain.OutcomeSuccess, user.ID.String(), requester.ID.String(), "")
	return user, nil
}

func (s *UserService) findAvailable(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsAvailable {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) authorize(op authz.Operation, target authz.Target, requester authz.Requester) error {
	d := authz.Decide(op, target, requester)
	if d.Allowed {
		return nil
	}
	s.log.Warn().
		Str("operation", string(op)).
		Str("user_id", target.ID.String()).
		Str("requester_id", requester.ID.String()).
		Str("requester_role", requester.Role.String()).
		Str("reason", d.Reason).
		Msg("authorization denied")
	s.record(domain.AuditAction(op), domain.OutcomeDenied, target.ID.String(), requester.ID.String(), d.Reason)
	return fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
}

func (s *UserService) record(action domain.AuditAction, outcome domain.AuditOutcome, userID, actorID, reason string) {
	s.audit.Record(domain.AuditEvent{
		UserID:  userID,
		ActorID: actorID,
		Action:  action,
		Outcome: outcome,
		Reason:  reason,
		At:      s.now(),
	})
}
