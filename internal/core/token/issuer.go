// Package token issues and verifies the HS256-signed access and refresh
// tokens handed out on login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fasttech/usuarios/internal/core/domain"
)

const minKeyLength = 32

var (
	ErrMissingSigningKey = errors.New("token: signing key is empty")
	ErrShortSigningKey   = fmt.Errorf("token: signing key must be at least %d bytes", minKeyLength)
	ErrInvalidLifetime   = errors.New("token: token lifetimes must be positive")
)

// Config is the signing configuration shared by access and refresh tokens.
type Config struct {
	Issuer              string
	Audience            string
	SigningKey          []byte
	AccessTokenMinutes  int
	RefreshTokenMinutes int
}

// Validate reports a configuration that can never produce valid tokens.
func (c Config) Validate() error {
	if len(c.SigningKey) == 0 {
		return ErrMissingSigningKey
	}
	if len(c.SigningKey) < minKeyLength {
		return ErrShortSigningKey
	}
	if c.AccessTokenMinutes <= 0 || c.RefreshTokenMinutes <= 0 {
		return ErrInvalidLifetime
	}
	return nil
}

// AccessClaims is the claim set of an access token. Subject and UniqueName
// both carry the user id.
type AccessClaims struct {
	jwt.RegisteredClaims
	UniqueName string      `json:"unique_name"`
	Role       domain.Role `json:"role"`
}

// RefreshClaims carries only the registered claims: sub, jti, iat, exp, iss, aud.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// SessionToken is a signed access token with the values it was built from.
type SessionToken struct {
	Token     string
	ID        string
	Subject   string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshToken is a signed refresh token.
type RefreshToken struct {
	Token     string
	ID        string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer signs and verifies tokens. It holds no mutable state and is safe
// for concurrent use.
type Issuer struct {
	cfg        Config
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option customises an Issuer.
type Option func(*Issuer)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer validates cfg and returns an Issuer. A configuration error here
// is fatal for the process.
func NewIssuer(cfg Config, opts ...Option) (*Issuer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	i := &Issuer{
		cfg:        cfg,
		accessTTL:  time.Duration(cfg.AccessTokenMinutes) * time.Minute,
		refreshTTL: time.Duration(cfg.RefreshTokenMinutes) * time.Minute,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// AccessTTL returns the configured access-token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccessToken signs a token for subject with role. Each call gets a
// fresh jti.
func (i *Issuer) IssueAccessToken(subject string, role domain.Role) (*SessionToken, error) {
	now := i.issuedAt()
	claims := AccessClaims{
		RegisteredClaims: i.registered(subject, now, i.accessTTL),
		UniqueName:       subject,
		Role:             role,
	}
	signed, err := i.sign(claims)
	if err != nil {
		return nil, err
	}
	return &SessionToken{
		Token:     signed,
		ID:        claims.ID,
		Subject:   subject,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IssueRefreshToken signs a refresh token for subject.
func (i *Issuer) IssueRefreshToken(subject string) (*RefreshToken, error) {
	now := i.issuedAt()
	claims := RefreshClaims{RegisteredClaims: i.registered(subject, now, i.refreshTTL)}
	signed, err := i.sign(claims)
	if err != nil {
		return nil, err
	}
	return &RefreshToken{
		Token:     signed,
		ID:        claims.ID,
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ParseAccessToken verifies signature, issuer, audience and expiry and
// returns the claims. A token without a role claim, such as a refresh
// token, is rejected.
func (i *Issuer) ParseAccessToken(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := i.parse(raw, claims); err != nil {
		return nil, err
	}
	if claims.Role == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: not an access token", domain.ErrInvalidToken)
	}
	return claims, nil
}

// ParseRefreshToken verifies a refresh token and returns its claims.
func (i *Issuer) ParseRefreshToken(raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := i.parse(raw, claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject or jti", domain.ErrInvalidToken)
	}
	return claims, nil
}

func (i *Issuer) parse(raw string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return i.cfg.SigningKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	return nil
}

func (i *Issuer) registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    i.cfg.Issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{i.cfg.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}

func (i *Issuer) sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.SigningKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// issuedAt is truncated to the second so that exp - iat equals the lifetime
// exactly once encoded as NumericDate.
func (i *Issuer) issuedAt() time.Time {
	return i.now().UTC().Truncate(time.Second)
}
