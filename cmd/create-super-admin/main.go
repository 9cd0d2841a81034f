package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/trailer-admin/internal/config"
	"github.com/spec-kit/trailer-admin/internal/observability"
	"github.com/spec-kit/trailer-admin/internal/persistence"
	"github.com/spec-kit/trailer-admin/internal/repository"
	"github.com/spec-kit/trailer-admin/internal/service"
)

func main() {
	name := flag.String("name", "Super Admin", "display name")
	email := flag.String("email", "", "login email")
	password := flag.String("password", "", "initial password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:  repository.NewUserRepository(pool),
		StaffRepo: repository.NewStaffRepository(pool),
		Logger:    logger,
	})

	user, err := authService.CreateSuperAdmin(ctx, *name, *email, *password)
	if err != nil {
		logger.Fatal("failed to create super admin", zap.Error(err))
	}
	logger.Info("super admin created", zap.String("id", user.ID), zap.String("email", user.Email))
}
