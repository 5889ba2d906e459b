package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/inventory-admin-api/api/swagger"
	"github.com/noah-isme/inventory-admin-api/internal/handler"
	"github.com/noah-isme/inventory-admin-api/internal/repository"
	"github.com/noah-isme/inventory-admin-api/internal/router"
	"github.com/noah-isme/inventory-admin-api/internal/service"
	"github.com/noah-isme/inventory-admin-api/pkg/config"
	"github.com/noah-isme/inventory-admin-api/pkg/database"
	"github.com/noah-isme/inventory-admin-api/pkg/logger"
)

// @title Sistema de Inventario API
// @version 1.0.0
// @description Authentication, user administration and audit trail for the inventory back office
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if _, err := database.Migrate(ctx, db, logr); err != nil {
			return err
		}
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	roleRepo := repository.NewRoleRepository(db)

	var observer database.TxObserver
	if metrics != nil {
		observer = metrics
	}
	tx := database.NewTransactor(db, observer)
	validate := service.NewValidator()

	if cfg.Seed.OnStart {
		seeder := service.NewSeedService(roleRepo, userRepo, tx, logr, service.SeedConfig{
			AdminEmail:    cfg.Seed.AdminEmail,
			AdminPassword: cfg.Seed.AdminPassword,
		})
		if _, err := seeder.Seed(ctx); err != nil {
			return err
		}
	}

	auditSvc := service.NewAuditService(auditRepo, metrics, logr)
	authSvc := service.NewAuthService(userRepo, sessionRepo, auditSvc, tx, validate, metrics, logr, service.AuthConfig{
		Secret:             cfg.JWT.Secret,
		Algorithm:          cfg.JWT.Algorithm,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
	})
	userSvc := service.NewUserService(userRepo, auditSvc, tx, validate, logr)
	roleSvc := service.NewRoleService(roleRepo, logr)

	engine := router.New(router.Config{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableMetrics:  cfg.Metrics.Enabled,
		EnableDocs:     cfg.Env != config.EnvProduction,
	}, router.Handlers{
		Auth:   handler.NewAuthHandler(authSvc),
		Users:  handler.NewUserHandler(userSvc),
		Audit:  handler.NewAuditHandler(auditSvc),
		Roles:  handler.NewRoleHandler(roleSvc),
		Health: handler.NewHealthHandler(cfg.Version, db, metrics, logr),
	}, authSvc, metrics, logr)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
