// @title           Secure Items API
// @version         1.0
// @description     Session-authenticated CRUD over user-owned items with ADMIN user management.
// @BasePath        /
// @securityDefinitions.apikey  SessionCookie
// @in                          cookie
// @name                        SESSION
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/secure-items-api/internal/api"
	"github.com/sirpyerre/secure-items-api/internal/api/handler"
	"github.com/sirpyerre/secure-items-api/internal/core/service"
	mongodb "github.com/sirpyerre/secure-items-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sirpyerre/secure-items-api/internal/infrastructure/db/redis"
	"github.com/sirpyerre/secure-items-api/internal/infrastructure/http/handlers"
	"github.com/sirpyerre/secure-items-api/internal/infrastructure/security"
	"github.com/sirpyerre/secure-items-api/internal/pkg/config"
	"github.com/sirpyerre/secure-items-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "secure-items-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	itemRepo := mongodb.NewItemRepository(db)
	if err := mongodb.EnsureIndexes(ctx, userRepo, itemRepo); err != nil {
		return err
	}

	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	sessions := redisdb.NewSessionStore(rdb)

	userService := service.NewUserService(userRepo, hasher, logger.Component("user_service"))
	itemService := service.NewItemService(itemRepo, logger.Component("item_service"))
	authService, err := service.NewAuthService(userRepo, hasher, sessions, cfg.Session.TTL, logger.Component("auth_service"))
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Logger:      log,
		AuthService: authService,
		UserService: userService,
		ItemService: itemService,
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		},
		HealthChecks:     []handlers.Check{handlers.MongoCheck(db), handlers.RedisCheck(rdb)},
		EnableSwagger:    cfg.IsDevelopment(),
		MetricsSubsystem: "http",
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting secure-items-api")
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
