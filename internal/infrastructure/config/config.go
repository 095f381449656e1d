package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"

	"github.com/fasttech/usuarios/internal/core/service"
	"github.com/fasttech/usuarios/internal/core/token"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Identity IdentityConfig
	Admin    AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=fasttech_usuarios"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IdentityConfig configures token issuance. SecretKey must never be logged.
type IdentityConfig struct {
	Issuer              string `env:"IDENTITY_ISSUER,                default=fasttech-usuarios"`
	Audience            string `env:"IDENTITY_AUDIENCE,              default=fasttech"`
	SecretKey           string `env:"IDENTITY_SECRET_KEY,            required"`
	AccessTokenMinutes  int    `env:"IDENTITY_ACCESS_TOKEN_MINUTES,  default=60"`
	RefreshTokenMinutes int    `env:"IDENTITY_REFRESH_TOKEN_MINUTES, default=1440"`
}

// AdminConfig is the bootstrap administrator. Seeding is skipped when
// Password is empty.
type AdminConfig struct {
	Name     string `env:"ADMIN_NAME,  default=Administrador"`
	Email    string `env:"ADMIN_EMAIL, default=admin@fasttech.com.br"`
	CPF      string `env:"ADMIN_CPF,   default=52998224725"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Token converts the identity settings into a token.Config.
func (c IdentityConfig) Token() token.Config {
	return token.Config{
		Issuer:              c.Issuer,
		Audience:            c.Audience,
		SigningKey:          []byte(c.SecretKey),
		AccessTokenMinutes:  c.AccessTokenMinutes,
		RefreshTokenMinutes: c.RefreshTokenMinutes,
	}
}

// Validate rejects a missing or short signing key and non-positive lifetimes.
func (c IdentityConfig) Validate() error {
	return c.Token().Validate()
}

// Enabled reports whether an administrator should be seeded.
func (c AdminConfig) Enabled() bool {
	return c.Password != ""
}

func (c AdminConfig) Seed() service.AdminSeed {
	return service.AdminSeed{Name: c.Name, Email: c.Email, CPF: c.CPF, Password: c.Password}
}

// IsDevelopment reports whether the service runs in the development
// environment, which switches the logger to console output.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Identity.Validate(); err != nil {
		return nil, fmt.Errorf("config: identity: %w", err)
	}
	if cfg.AuditWorkers <= 0 {
		return nil, fmt.Errorf("config: AUDIT_WORKERS must be positive, got %d", cfg.AuditWorkers)
	}
	return &cfg, nil
}
