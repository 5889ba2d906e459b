package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-isme/inventory-admin-api/internal/repository"
	"github.com/noah-isme/inventory-admin-api/internal/service"
	"github.com/noah-isme/inventory-admin-api/pkg/config"
	"github.com/noah-isme/inventory-admin-api/pkg/database"
	"github.com/noah-isme/inventory-admin-api/pkg/logger"
)

// Applies pending migrations, then inserts the default roles and the bootstrap super admin.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db, logr)
	if err != nil {
		logr.Fatal("migration failed", zap.Error(err))
	}

	seeder := service.NewSeedService(
		repository.NewRoleRepository(db),
		repository.NewUserRepository(db),
		database.NewTransactor(db, nil),
		logr,
		service.SeedConfig{AdminEmail: cfg.Seed.AdminEmail, AdminPassword: cfg.Seed.AdminPassword},
	)
	result, err := seeder.Seed(ctx)
	if err != nil {
		logr.Fatal("seed failed", zap.Error(err))
	}

	logr.Info("seed completed",
		zap.Int("migrations_applied", len(applied)),
		zap.Int("roles_created", result.RolesCreated),
		zap.Bool("admin_created", result.AdminCreated),
	)
}
