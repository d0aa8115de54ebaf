package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"sentiment-chat-demo/backend/internal/api"
	"sentiment-chat-demo/backend/pkg/config"
	"sentiment-chat-demo/backend/pkg/di"
	"sentiment-chat-demo/backend/pkg/errors"
	"sentiment-chat-demo/backend/pkg/logger"
	"sentiment-chat-demo/backend/pkg/middleware"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)

	cfg := config.Get()
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Logger middleware first so every request gets a scoped logger
	engine.Use(middleware.RequestID())
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())

	rlOpts := middleware.DefaultRateLimiterOptions()
	rlOpts.Limit = rate.Limit(cfg.Security.RateLimit)
	rlOpts.Burst = cfg.Security.RateLimitBurst
	rateLimiter := middleware.NewRateLimiter(container.Logger, rlOpts)
	engine.Use(rateLimiter.Middleware())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	r.Engine.Use(corsMiddleware())

	userController := api.NewUserController(r.Container.UserService)
	messageController := api.NewMessageController(r.Container.MessageService)
	healthController := api.NewHealthController(r.Container.Health)

	// Primary routes, the paths the web and mobile clients poll
	healthController.RegisterRoutes(r.Engine)
	userController.RegisterRoutes(r.Engine)
	messageController.RegisterRoutes(r.Engine)

	// Versioned aliases
	v1 := r.Engine.Group("/api/v1")
	healthController.RegisterRoutesV1(v1)
	userController.RegisterRoutesV1(v1)
	messageController.RegisterRoutesV1(v1)
}

// corsMiddleware allows the browser clients to call the API from any origin
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, Origin, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
