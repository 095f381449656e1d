package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/fasttech/usuarios/internal/core/domain"
)

func setupRefreshStore(t *testing.T) (*RefreshStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return NewRefreshStore(client), mr
}

func TestRefreshStore_SaveAndConsume(t *testing.T) {
	store, mr := setupRefreshStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "jti-1", "user-1", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL("refresh:jti-1"); ttl != time.Hour {
		t.Fatalf("expected ttl of one hour, got %s", ttl)
	}

	subject, err := store.Consume(ctx, "jti-1")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if subject != "user-1" {
		t.Fatalf("expected subject user-1, got %q", subject)
	}

	if _, err := store.Consume(ctx, "jti-1"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected second consume to fail with ErrInvalidToken, got %v", err)
	}
}

func TestRefreshStore_Expiry(t *testing.T) {
	store, mr := setupRefreshStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "jti-2", "user-2", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := store.Consume(ctx, "jti-2"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestRefreshStore_Revoke(t *testing.T) {
	store, mr := setupRefreshStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "jti-3", "user-3", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Revoke(ctx, "jti-3"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if mr.Exists("refresh:jti-3") {
		t.Fatal("expected key removed")
	}
	if err := store.Revoke(ctx, "unknown"); err != nil {
		t.Fatalf("revoking unknown jti should succeed, got %v", err)
	}
}

func TestRefreshStore_RejectsNonPositiveTTL(t *testing.T) {
	store, _ := setupRefreshStore(t)
	if err := store.Save(context.Background(), "jti-4", "user-4", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestRefreshStore_ConcurrentConsumeSingleWinner(t *testing.T) {
	store, _ := setupRefreshStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "jti-5", "user-5", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Consume(ctx, "jti-5"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one successful consume, got %d", wins)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}
