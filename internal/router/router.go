package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/inventory-admin-api/internal/handler"
	"github.com/noah-isme/inventory-admin-api/internal/middleware"
	"github.com/noah-isme/inventory-admin-api/internal/service"
	"github.com/noah-isme/inventory-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/inventory-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/inventory-admin-api/pkg/middleware/requestid"
)

// Config controls which surfaces the engine exposes.
type Config struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableMetrics  bool
	EnableDocs     bool
}

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth   *handler.AuthHandler
	Users  *handler.UserHandler
	Audit  *handler.AuditHandler
	Roles  *handler.RoleHandler
	Health *handler.HealthHandler
}

// New builds the gin engine with the global middleware chain and every route.
func New(cfg Config, h Handlers, authenticator middleware.Authenticator, metrics *service.MetricsService, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Live)
	r.GET("/ready", h.Health.Ready)
	if cfg.EnableMetrics {
		r.GET("/metrics", h.Health.Prometheus)
	}
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/health-check", h.Health.Check)

	authenticated := []gin.HandlerFunc{
		middleware.Authenticate(authenticator),
		middleware.RequireActiveUser(),
	}

	auth := api.Group("/auth")
	auth.POST("/login/access-token", h.Auth.Login)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/refresh", h.Auth.Refresh)

	sessions := auth.Group("/sessions", authenticated...)
	sessions.GET("", h.Auth.Sessions)
	sessions.DELETE("/:id", h.Auth.RevokeSession)

	users := api.Group("/users", authenticated...)
	users.GET("/me", h.Users.Me)
	users.PUT("/me", h.Users.UpdateMe)

	admin := users.Group("", middleware.AllowAdmin.Middleware())
	admin.GET("/", h.Users.List)
	admin.POST("/", h.Users.Create)
	admin.GET("/:id", h.Users.Get)
	admin.PUT("/:id", h.Users.Update)
	admin.DELETE("/:id", h.Users.Delete)

	roles := api.Group("/roles", authenticated...)
	roles.GET("/", middleware.AllowAdmin.Middleware(), h.Roles.List)

	audit := api.Group("/audit", authenticated...)
	audit.GET("/", middleware.AllowSuperAdmin.Middleware(), h.Audit.List)

	return r
}
