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

	httptransport "github.com/spec-kit/trailer-admin/internal/api/http"
	"github.com/spec-kit/trailer-admin/internal/api/http/handlers"
	"github.com/spec-kit/trailer-admin/internal/auth"
	"github.com/spec-kit/trailer-admin/internal/cache"
	"github.com/spec-kit/trailer-admin/internal/config"
	"github.com/spec-kit/trailer-admin/internal/events"
	"github.com/spec-kit/trailer-admin/internal/notify"
	"github.com/spec-kit/trailer-admin/internal/observability"
	"github.com/spec-kit/trailer-admin/internal/persistence"
	"github.com/spec-kit/trailer-admin/internal/repository"
	"github.com/spec-kit/trailer-admin/internal/service"
	"github.com/spec-kit/trailer-admin/internal/storage"
	"github.com/spec-kit/trailer-admin/internal/worker"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	objects, err := storage.NewMinioStore(cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to init object storage", zap.Error(err))
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		logger.Warn("document bucket unavailable", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	policyRepo := repository.NewInsuranceRepository(pool)
	trailerRepo := repository.NewTrailerRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	mailer := notify.NewMailer(cfg.SMTP, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:  userRepo,
		StaffRepo: staffRepo,
		Logger:    logger,
	})
	staffService := service.NewStaffService(staffRepo, userRepo)
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:   taskRepo,
		StaffRepo:  staffRepo,
		Policy:     service.NewAssignmentPolicy(staffRepo, userRepo),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	insuranceService := service.NewInsuranceService(service.InsuranceDependencies{
		PolicyRepo:   policyRepo,
		TrailerRepo:  trailerRepo,
		DocumentRepo: documentRepo,
		Cache:        cache.NewStatsCache(redis.Client, cfg.Cache.StatsTTL, logger),
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	trailerService := service.NewTrailerService(trailerRepo, customerRepo)
	customerService := service.NewCustomerService(customerRepo)
	documentService := service.NewDocumentService(service.DocumentDependencies{
		DocumentRepo:   documentRepo,
		CustomerRepo:   customerRepo,
		Objects:        objects,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		Logger:         logger,
	})
	notificationService := service.NewNotificationService(dispatcher, mailer, cfg.SMTP.ReminderRecipients, metrics, logger)

	var reminders *worker.ReminderWorker
	if cfg.Reminder.Enabled {
		reminders = worker.NewReminderWorker(insuranceService, cfg.Reminder.Interval, logger)
	}
	background := worker.Start(ctx, notificationService, reminders, logger)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimitBytes,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
			"storage":  objects,
		}),
		Users:         handlers.NewUsersHandler(authService),
		Staff:         handlers.NewStaffHandler(staffService),
		Tasks:         handlers.NewTasksHandler(taskService),
		Insurance:     handlers.NewInsuranceHandler(insuranceService),
		Trailers:      handlers.NewTrailersHandler(trailerService),
		Customers:     handlers.NewCustomersHandler(customerService),
		Documents:     handlers.NewDocumentsHandler(documentService),
		Authenticator: auth.NewAuthenticator(authService.TokenManager(), userRepo),
		Gate:          auth.NewGate(auth.DefaultPermissionTable()),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
	background.Wait(shutdownGrace)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
