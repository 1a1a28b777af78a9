package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

// DatabaseChecker reports whether the store answers
type DatabaseChecker interface {
	HealthCheck(ctx context.Context) error
}

// CacheChecker reports whether the stats cache answers
type CacheChecker interface {
	HealthCheck() error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db     DatabaseChecker
	cache  CacheChecker
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler. cache may be nil when the
// stats cache is disabled.
func NewHealthHandler(db DatabaseChecker, cache CacheChecker, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cache,
		logger: logger.WithComponent("health-handler"),
	}
}

// Health returns basic health status
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Readiness checks if the service is ready to handle requests
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var (
		dbErr    error
		cacheErr error
		wg       sync.WaitGroup
	)

	wg.Add(2)

	// Check database (required) - in parallel
	go func() {
		defer wg.Done()
		dbErr = h.db.HealthCheck(ctx)
	}()

	// Check stats cache (optional) - in parallel
	go func() {
		defer wg.Done()
		if h.cache != nil {
			cacheErr = h.cache.HealthCheck()
		}
	}()

	wg.Wait()

	if dbErr != nil {
		h.logger.Warn("Database health check failed", "error", dbErr)
	}

	checks := gin.H{
		"database": gin.H{
			"healthy":  dbErr == nil,
			"required": true,
		},
		"cache": gin.H{
			"healthy":  cacheErr == nil,
			"enabled":  h.cache != nil,
			"required": false,
		},
	}

	status := "ready"
	code := http.StatusOK
	if dbErr != nil {
		status = "not ready"
		code = http.StatusServiceUnavailable
	}

	body := gin.H{
		"status": status,
		"checks": checks,
	}
	if cacheErr != nil {
		body["warnings"] = []string{"stats cache unavailable - counts are computed from the database"}
	}

	c.JSON(code, body)
}

// Liveness checks if the service is alive
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
