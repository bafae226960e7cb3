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

	httptransport "github.com/citizen-voice/feedback-service/internal/api/http"
	"github.com/citizen-voice/feedback-service/internal/api/http/handlers"
	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/config"
	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/events"
	"github.com/citizen-voice/feedback-service/internal/observability"
	"github.com/citizen-voice/feedback-service/internal/persistence"
	"github.com/citizen-voice/feedback-service/internal/repository"
	"github.com/citizen-voice/feedback-service/internal/repository/memory"
	"github.com/citizen-voice/feedback-service/internal/service"
	"github.com/citizen-voice/feedback-service/internal/worker"
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

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var store *repository.Store
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		store = repository.NewPostgresStore(pg.PoolHandle())
	} else {
		store = memory.NewStore()
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var revocations auth.RevocationStore = auth.NewMemoryRevocationStore()
	if redis.Enabled() {
		revocations = auth.NewRedisRevocationStore(redis.Client, config.NewCircuitBreaker(config.BreakerRevocation, logger))
	}

	for _, status := range cfg.Submission.ExtraStatuses {
		domain.RegisterStatus(domain.SubmissionStatus(status))
	}
	var transitions domain.TransitionPolicy = domain.PermissiveTransitions{}
	if cfg.Submission.TransitionPolicy == "strict" {
		transitions = domain.DefaultTransitionTable()
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	activity := service.NewActivityService(dispatcher, logger, metrics)

	var sink events.EventHandler
	if cfg.AMQP.URL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, config.NewCircuitBreaker(config.BreakerAMQP, logger), logger)
		if err != nil {
			logger.Warn("amqp publisher unavailable; events stay in process", zap.Error(err))
		} else {
			defer publisher.Close() //nolint:errcheck
			sink = publisher.Handle
		}
	}
	worker.StartEventWorkers(dispatcher, activity, sink)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    store.Users,
		AgencyRepo:  store.Agencies,
		Tokens:      tokens,
		Revocations: revocations,
		Logger:      logger,
	})
	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		AgencyRepo:     store.Agencies,
		CategoryRepo:   store.Categories,
		SubmissionRepo: store.Submissions,
	})
	submissionService := service.NewSubmissionService(service.SubmissionDependencies{
		SubmissionRepo: store.Submissions,
		UserRepo:       store.Users,
		CategoryRepo:   store.Categories,
		AgencyRepo:     store.Agencies,
		HistoryRepo:    store.History,
		Dispatcher:     dispatcher,
		Transitions:    transitions,
		Logger:         logger,
	})
	queryService := service.NewQueryService(service.QueryDependencies{
		SubmissionRepo: store.Submissions,
		ResponseRepo:   store.Responses,
		UserRepo:       store.Users,
		CategoryRepo:   store.Categories,
		AgencyRepo:     store.Agencies,
	})
	responseService := service.NewResponseService(service.ResponseDependencies{
		ResponseRepo:   store.Responses,
		SubmissionRepo: store.Submissions,
		UserRepo:       store.Users,
		Query:          queryService,
		Dispatcher:     dispatcher,
	})

	if err := authService.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		logger.Fatal("failed to bootstrap administrator", zap.Error(err))
	}

	authMiddleware := auth.NewAuthMiddleware(tokens, store.Users, revocations, cfg.Auth.CookieName, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService, cfg.Auth),
		Users:          handlers.NewUsersHandler(authService),
		Directory:      handlers.NewDirectoryHandler(directoryService),
		Submissions:    handlers.NewSubmissionsHandler(submissionService, queryService, responseService),
		Responses:      handlers.NewResponsesHandler(responseService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
		MetricsPath:    cfg.Metrics.Path,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
