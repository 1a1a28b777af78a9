package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

// LoggerMiddleware creates request logging middleware
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		// Process request
		c.Next()

		duration := time.Since(startTime)

		// The user is only known once auth has run further down the chain
		reqLog := log.WithFields(map[string]interface{}{
			"request_id": GetRequestID(c),
			"path":       c.FullPath(),
		})
		if userID := GetUserID(c); userID != "" {
			reqLog = reqLog.WithUser(userID)
		}

		reqLog.Info("HTTP Request",
			"method", c.Request.Method,
			"status", c.Writer.Status(),
			"duration_ms", duration.Milliseconds(),
			"client_ip", c.ClientIP(),
		)

		// Business errors are expected outcomes; everything else is a fault
		for _, e := range c.Errors {
			errLog := reqLog.WithError(e.Err)
			if kind, ok := domain.KindOf(e.Err); ok {
				errLog.Debug("Request rejected", "kind", string(kind))
				continue
			}
			errLog.Error("Request failed")
		}
	}
}
