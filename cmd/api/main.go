package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/booking-gateway/internal/api/http"
	"github.com/spec-kit/booking-gateway/internal/api/http/handlers"
	"github.com/spec-kit/booking-gateway/internal/auth"
	"github.com/spec-kit/booking-gateway/internal/cache"
	"github.com/spec-kit/booking-gateway/internal/config"
	"github.com/spec-kit/booking-gateway/internal/observability"
	"github.com/spec-kit/booking-gateway/internal/schedule"
	"github.com/spec-kit/booking-gateway/internal/service"
	"github.com/spec-kit/booking-gateway/internal/session"
	"github.com/spec-kit/booking-gateway/internal/upstream"
	"github.com/spec-kit/booking-gateway/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing := observability.SetupTracing(cfg.App.Name, logger)
	defer shutdownTracing(context.Background()) //nolint:errcheck

	metrics := observability.NewMetrics()

	resolver, err := schedule.NewResolver(cfg.Schedule)
	if err != nil {
		logger.Fatal("invalid schedule configuration", zap.Error(err))
	}

	client := upstream.NewClient(cfg.Upstream, logger)

	sessions := session.NewStore(client, session.StoreConfig{
		Username: cfg.Upstream.Username,
		Password: cfg.Upstream.Password,
		Retries:  cfg.Upstream.AuthRetries,
	}, logger)

	var cacheStore cache.Store
	var redisStore *cache.RedisStore
	if cfg.Cache.RedisAddr != "" {
		redisStore = cache.NewRedisStore(cfg.Cache, logger)
		defer redisStore.Close()
		cacheStore = redisStore
	} else {
		cacheStore = cache.NewMemoryStore(cfg.Cache.TTL(), cfg.Cache.MaxEntries, logger)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	authMiddleware := auth.NewAuthMiddleware(tokens)

	scheduleService := service.NewScheduleService(cfg.Schedule, service.ScheduleDependencies{
		API:      client,
		Sessions: sessions,
		Resolver: resolver,
		Cache:    cacheStore,
		Metrics:  metrics,
		Logger:   logger,
	})
	reservationService := service.NewReservationService(cfg.Schedule, client, resolver, logger, nil)
	authService := service.NewAuthService(cfg.Auth, client, tokens, logger, nil)
	accountService := service.NewAccountService(client, logger, nil)
	dashboardService := service.NewDashboardService(reservationService, logger, nil)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, sessions, redisStore, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Schedule:       handlers.NewScheduleHandler(scheduleService),
		Reservations:   handlers.NewReservationsHandler(reservationService, resolver.Location()),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		AuthMiddleware: authMiddleware,
	})

	worker.StartPreAuthWorker(ctx, sessions, 20*time.Minute, logger)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
