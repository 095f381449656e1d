package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fasttech/usuarios/internal/core/domain"
)

// RefreshStore implements ports.RefreshStore. Each outstanding refresh
// token is one key holding its subject, expiring with the token.
// Key format: refresh:<jti>
type RefreshStore struct {
	client *redis.Client
}

func NewRefreshStore(client *redis.Client) *RefreshStore {
	return &RefreshStore{client: client}
}

// Save records jti as usable for ttl.
func (s *RefreshStore) Save(ctx context.Context, jti, subject string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("save refresh token: non-positive ttl %s", ttl)
	}
	if err := s.client.Set(ctx, s.key(jti), subject, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Consume removes jti with GETDEL so two concurrent refreshes with the same
// token cannot both succeed.
func (s *RefreshStore) Consume(ctx context.Context, jti string) (string, error) {
	subject, err := s.client.GetDel(ctx, s.key(jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrInvalidToken
		}
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	return subject, nil
}

// Revoke deletes jti. Revoking an unknown jti is not an error.
func (s *RefreshStore) Revoke(ctx context.Context, jti string) error {
	if err := s.client.Del(ctx, s.key(jti)).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *RefreshStore) key(jti string) string {
	return "refresh:" + jti
}
