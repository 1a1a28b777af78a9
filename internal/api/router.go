package api

import (
	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newsreader/internal/api/handlers"
	"github.com/amiyamandal-dev/newsreader/internal/api/middleware"
	"github.com/amiyamandal-dev/newsreader/internal/config"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

// Handlers groups the request handlers mounted by the router
type Handlers struct {
	Folders *handlers.FolderHandler
	Feeds   *handlers.FeedHandler
	Items   *handlers.ItemHandler
	Web     *handlers.WebHandler
	Health  *handlers.HealthHandler
}

// Router sets up the HTTP router with all routes and middleware
type Router struct {
	engine   *gin.Engine
	handlers Handlers
	tokens   middleware.TokenValidator
	limiter  *middleware.RateLimiter
	cfg      *config.Config
	logger   *logger.Logger
}

// NewRouter creates a new router
func NewRouter(
	h Handlers,
	tokens middleware.TokenValidator,
	limiter *middleware.RateLimiter,
	cfg *config.Config,
	logger *logger.Logger,
) *Router {
	return &Router{
		handlers: h,
		tokens:   tokens,
		limiter:  limiter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.cfg.Server.Mode)

	r.engine = gin.New()

	// Global middleware
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.RequestIDMiddleware())
	r.engine.Use(middleware.CORSMiddleware(r.cfg.CORS.AllowedOrigins))
	r.engine.Use(middleware.LoggerMiddleware(r.logger))

	// Health check endpoints (no rate limiting, no auth)
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/health/ready", r.handlers.Health.Readiness)
	r.engine.GET("/health/live", r.handlers.Health.Liveness)

	// Every API route acts on behalf of the authenticated user, so the
	// limiter runs after auth and keys on the user id.
	v1 := r.engine.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(r.tokens))
	v1.Use(middleware.RateLimitMiddleware(r.limiter))
	{
		folders := v1.Group("/folders")
		{
			folders.GET("", r.handlers.Folders.Index)
			folders.POST("", r.handlers.Folders.Create)
			folders.PUT("/:id", r.handlers.Folders.Update)
			folders.DELETE("/:id", r.handlers.Folders.Delete)
			folders.PUT("/:id/read", r.handlers.Folders.Read)
			folders.PUT("/:id/open", r.handlers.Folders.Open)
			folders.PUT("/:id/collapse", r.handlers.Folders.Collapse)
			folders.POST("/:id/restore", r.handlers.Folders.Restore)
		}

		feeds := v1.Group("/feeds")
		{
			feeds.GET("", r.handlers.Feeds.Index)
			feeds.PUT("/:id/read", r.handlers.Feeds.Read)
		}

		items := v1.Group("/items")
		{
			items.GET("", r.handlers.Items.Index)
			items.GET("/updated", r.handlers.Items.Updated)

			items.PUT("/read", r.handlers.Items.ReadAll)
			items.PUT("/read/multiple", r.handlers.Items.ReadMultiple)
			items.PUT("/unread/multiple", r.handlers.Items.UnreadMultiple)
			items.PUT("/star/multiple", r.handlers.Items.StarMultiple)
			items.PUT("/unstar/multiple", r.handlers.Items.UnstarMultiple)

			items.PUT("/:id/read", r.handlers.Items.Read)
			items.PUT("/:id/unread", r.handlers.Items.Unread)
			items.PUT("/:id/:guidHash/star", r.handlers.Items.Star)
			items.PUT("/:id/:guidHash/unstar", r.handlers.Items.Unstar)
		}

		web := v1.Group("/web")
		{
			web.GET("/items", r.handlers.Web.Index)
			web.GET("/items/new", r.handlers.Web.NewItems)
			web.POST("/items/read", r.handlers.Web.ReadAll)
			web.PUT("/settings/show-all", r.handlers.Web.SetShowAll)
		}
	}

	return r.engine
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	if r.engine == nil {
		return r.Setup()
	}
	return r.engine
}
