package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fasttech/usuarios/internal/api"
	"github.com/fasttech/usuarios/internal/core/service"
	"github.com/fasttech/usuarios/internal/core/token"
	"github.com/fasttech/usuarios/internal/infrastructure/config"
	mongostore "github.com/fasttech/usuarios/internal/infrastructure/db/mongo"
	redisstore "github.com/fasttech/usuarios/internal/infrastructure/db/redis"
	"github.com/fasttech/usuarios/internal/infrastructure/http/handlers"
	"github.com/fasttech/usuarios/internal/infrastructure/queue"
	"github.com/fasttech/usuarios/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("identity service: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "fasttech-usuarios",
	})
	log := logger.Get()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	users := mongostore.NewUserRepository(db)
	auditRepo := mongostore.NewAuditRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, auditRepo); err != nil {
		return err
	}

	issuer, err := token.NewIssuer(cfg.Identity.Token())
	if err != nil {
		return err
	}

	audit := queue.NewAuditDispatcher(cfg.AuditWorkers, auditRepo, logger.Component("audit"))
	audit.Start()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := audit.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("audit queue not drained before shutdown")
		}
	}()

	svc := service.NewUserService(users, redisstore.NewRefreshStore(rdb), issuer, audit, logger.Component("users"))

	if cfg.Admin.Enabled() {
		if _, err := svc.EnsureAdmin(ctx, cfg.Admin.Seed()); err != nil {
			return err
		}
	} else {
		log.Info().Msg("ADMIN_PASSWORD not set, admin seeding skipped")
	}

	e := api.NewRouter(api.Dependencies{
		Users:  svc,
		Tokens: issuer,
		Checks: map[string]handlers.Checker{
			"mongodb": handlers.MongoChecker(db),
			"redis":   handlers.RedisChecker(rdb),
		},
		Log: logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Int("access_token_minutes", cfg.Identity.AccessTokenMinutes).
			Msg("identity service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
