package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/tutorhub/tutor-marketplace/internal/api/http"
	"github.com/tutorhub/tutor-marketplace/internal/api/http/handlers"
	"github.com/tutorhub/tutor-marketplace/internal/auth"
	"github.com/tutorhub/tutor-marketplace/internal/config"
	"github.com/tutorhub/tutor-marketplace/internal/events"
	"github.com/tutorhub/tutor-marketplace/internal/observability"
	"github.com/tutorhub/tutor-marketplace/internal/persistence"
	"github.com/tutorhub/tutor-marketplace/internal/repository"
	"github.com/tutorhub/tutor-marketplace/internal/repository/memory"
	"github.com/tutorhub/tutor-marketplace/internal/service"
	"github.com/tutorhub/tutor-marketplace/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	var publisher persistence.Publisher
	var redisPinger handlers.Pinger
	if cfg.Redis.Addr != "" {
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		publisher = redis
		redisPinger = redis
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	services := service.NewServices(*cfg, store, dispatcher, publisher, logger)
	worker.StartNotificationWorker(services.Notifications)
	worker.StartOccupancyReconciler(ctx, services.Sessions, cfg.Storage.ReconcileInterval(), logger)

	authMiddleware := auth.NewAuthMiddleware(services.Auth.TokenManager(), store.Users())

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redisPinger, metrics),
		Auth:           handlers.NewAuthHandler(services.Auth),
		Tutors:         handlers.NewTutorsHandler(services.Tutors, services.Sessions),
		Sessions:       handlers.NewSessionsHandler(services.Sessions, services.Enrollments),
		Reviews:        handlers.NewReviewsHandler(services.Reviews),
		Favorites:      handlers.NewFavoritesHandler(services.Favorites),
		Messages:       handlers.NewMessagesHandler(services.Messages),
		Notifications:  handlers.NewNotificationsHandler(services.Notifications),
		Resources:      handlers.NewResourcesHandler(services.Resources),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, func()) {
	if cfg.Storage.Backend == config.StorageMemory {
		logger.Info("using in-memory storage")
		return memory.NewStore(), func() {}
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			pg.Close()
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	return repository.NewPostgresStore(pg.PoolHandle()), pg.Close
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
