package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"ml-course-assistant/backend/internal/api"
	"ml-course-assistant/backend/internal/conversation"
	"ml-course-assistant/backend/internal/prompts"
	"ml-course-assistant/backend/internal/service"
	"ml-course-assistant/backend/pkg/config"
	"ml-course-assistant/backend/pkg/errors"
	"ml-course-assistant/backend/pkg/health"
	"ml-course-assistant/backend/pkg/logger"
	"ml-course-assistant/backend/pkg/metrics"
	"ml-course-assistant/backend/pkg/middleware"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Registry    *prompts.Registry
	Store       *conversation.Store
	ChatService *service.ChatService
	Metrics     *metrics.Metrics
	Health      *health.Checker
}

// New builds the gin engine with the full middleware chain and all routes.
func New(deps Deps) *gin.Engine {
	if deps.Config.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.Middleware(deps.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())
	engine.Use(corsMiddleware(deps.Config.Security.AllowedOrigins))

	engine.GET("/health", deps.Health.Handler())
	engine.GET("/metrics", deps.Metrics.Handler())

	// The chat route is the only one that spends upstream tokens, so the
	// rate limiter applies there rather than globally.
	chatLimiter := middleware.NewRateLimiter(deps.Logger, middleware.RateLimiterOptions{
		Limit:          rate.Limit(deps.Config.Security.RateLimit),
		Burst:          deps.Config.Security.RateLimitBurst,
		ExpiryDuration: middleware.DefaultRateLimiterOptions().ExpiryDuration,
		KeyFunc:        middleware.DefaultRateLimiterOptions().KeyFunc,
	})

	apiGroup := engine.Group("/api")
	{
		api.NewChatController(deps.ChatService).RegisterRoutes(apiGroup, chatLimiter.Middleware())
		api.NewConversationController(deps.Store).RegisterRoutes(apiGroup)
		api.NewModulesController(deps.Registry).RegisterRoutes(apiGroup)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"success": false,
			"error":   "Endpoint not found",
			"message": c.Request.Method + " " + c.Request.URL.Path + " not found",
		})
	})

	return engine
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 1 && allowedOrigins[0] == "*"

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		switch {
		case allowAll:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && originAllowed(origin, allowedOrigins):
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, Authorization, Origin, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}
