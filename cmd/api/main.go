package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/rsvp-service/internal/api/http"
	"github.com/spec-kit/rsvp-service/internal/api/http/handlers"
	"github.com/spec-kit/rsvp-service/internal/cache"
	"github.com/spec-kit/rsvp-service/internal/config"
	"github.com/spec-kit/rsvp-service/internal/events"
	"github.com/spec-kit/rsvp-service/internal/observability"
	"github.com/spec-kit/rsvp-service/internal/persistence"
	"github.com/spec-kit/rsvp-service/internal/repository"
	"github.com/spec-kit/rsvp-service/internal/service"
	"github.com/spec-kit/rsvp-service/internal/worker"
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

	var (
		guestRepo repository.GuestRepository
		pg        *persistence.Postgres
	)
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		guestRepo = repository.NewPostgresGuestRepository(pg.Pool)
	default:
		fileRepo, err := repository.NewFileGuestRepository(cfg.Store.FilePath)
		if err != nil {
			logger.Fatal("failed to open guest file store", zap.Error(err))
		}
		guestRepo = fileRepo
	}
	logger.Info("guest store ready", zap.String("backend", cfg.Store.Backend))

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var listCache *cache.GuestListCache
	if redis != nil {
		listCache = cache.NewGuestListCache(redis.Client, cfg.Store.ListCacheTTL())
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService)

	confirmationService := service.NewConfirmationService(guestRepo, listCache, dispatcher, logger)
	listingService := service.NewListingService(guestRepo, listCache)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	guestsHandler := handlers.NewGuestsHandler(confirmationService, listingService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: healthHandler,
		Guests: guestsHandler,
	})

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
