package config

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sethvargo/go-envconfig"

	"github.com/fasttech/usuarios/internal/core/token"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"IDENTITY_SECRET_KEY": testSecret,
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Mongo.Database != "fasttech_usuarios" {
		t.Fatalf("expected default database, got %q", cfg.Mongo.Database)
	}
	if cfg.Identity.Issuer != "fasttech-usuarios" || cfg.Identity.Audience != "fasttech" {
		t.Fatalf("unexpected identity defaults: %+v", cfg.Identity)
	}
	if cfg.Identity.AccessTokenMinutes != 60 || cfg.Identity.RefreshTokenMinutes != 1440 {
		t.Fatalf("unexpected lifetimes: %+v", cfg.Identity)
	}
	if cfg.AuditWorkers != 4 {
		t.Fatalf("expected 4 audit workers, got %d", cfg.AuditWorkers)
	}
	if cfg.Admin.Enabled() {
		t.Fatal("expected admin seeding disabled without a password")
	}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development environment")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":                           "9090",
		"ENV":                            "production",
		"IDENTITY_SECRET_KEY":            testSecret,
		"IDENTITY_ACCESS_TOKEN_MINUTES":  "15",
		"IDENTITY_REFRESH_TOKEN_MINUTES": "120",
		"REDIS_DB":                       "3",
		"ADMIN_PASSWORD":                 "admin123",
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "9090" || cfg.IsDevelopment() {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Redis.DB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.Redis.DB)
	}
	tc := cfg.Identity.Token()
	if tc.AccessTokenMinutes != 15 || tc.RefreshTokenMinutes != 120 || string(tc.SigningKey) != testSecret {
		t.Fatalf("unexpected token config: %+v", tc)
	}
	if !cfg.Admin.Enabled() || cfg.Admin.Seed().Password != "admin123" {
		t.Fatalf("expected admin seed enabled, got %+v", cfg.Admin)
	}
}

func TestLoadWith_MissingSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err == nil {
		t.Fatal("expected error when IDENTITY_SECRET_KEY is missing")
	}
	if !strings.Contains(err.Error(), "IDENTITY_SECRET_KEY") {
		t.Fatalf("expected error to name the variable, got %v", err)
	}
}

func TestLoadWith_ShortSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"IDENTITY_SECRET_KEY": "too-short",
	}))
	if !errors.Is(err, token.ErrShortSigningKey) {
		t.Fatalf("expected ErrShortSigningKey, got %v", err)
	}
}

func TestLoadWith_InvalidLifetime(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"IDENTITY_SECRET_KEY":           testSecret,
		"IDENTITY_ACCESS_TOKEN_MINUTES": "0",
	}))
	if !errors.Is(err, token.ErrInvalidLifetime) {
		t.Fatalf("expected ErrInvalidLifetime, got %v", err)
	}
}

func TestLoadWith_InvalidWorkers(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"IDENTITY_SECRET_KEY": testSecret,
		"AUDIT_WORKERS":       "0",
	}))
	if err == nil {
		t.Fatal("expected error for zero audit workers")
	}
}
