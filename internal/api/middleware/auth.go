package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newsreader/internal/auth"
	"github.com/amiyamandal-dev/newsreader/pkg/response"
)

const userIDKey = "user_id"

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware creates JWT authentication middleware
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)

		c.Next()
	}
}

// GetUserID retrieves the user ID from the request context
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// SetUserID stores the acting user, for handler tests that skip authentication
func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}
