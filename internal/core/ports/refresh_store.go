package ports

import (
	"context"
	"time"
)

// RefreshStore tracks outstanding refresh tokens by jti. A refresh token is
// usable only while its jti is present.
type RefreshStore interface {
	Save(ctx context.Context, jti, subject string, ttl time.Duration) error
	// Consume atomically removes jti and returns the subject it was saved
	// with. An unknown or already consumed jti yields domain.ErrInvalidToken.
	Consume(ctx context.Context, jti string) (string, error)
	Revoke(ctx context.Context, jti string) error
}
