package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

// ErrorBody is the payload of every failed request
type ErrorBody struct {
	Message string `json:"message"`
}

var statusByCategory = map[domain.Category]int{
	domain.CategoryOK:            http.StatusOK,
	domain.CategoryUnprocessable: http.StatusUnprocessableEntity,
	domain.CategoryConflict:      http.StatusConflict,
	domain.CategoryNotFound:      http.StatusNotFound,
	domain.CategoryInternal:      http.StatusInternalServerError,
}

// Status returns the HTTP status of a result category
func Status(category domain.Category) int {
	if status, ok := statusByCategory[category]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Success sends data as the response body
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Empty sends an empty JSON object
func Empty(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}

// Error sends an error response
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{Message: message})
}

// FromError translates a business error and aborts the request with the
// matching status. The original error is attached to the gin context so the
// logging middleware records it.
func FromError(c *gin.Context, err error) {
	result := domain.Translate(err)
	if result.Category == domain.CategoryOK {
		Empty(c)
		return
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(Status(result.Category), ErrorBody{Message: result.Message})
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// TooManyRequests sends a 429 Too Many Requests response
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message)
}

// ServiceUnavailable sends a 503 Service Unavailable response
func ServiceUnavailable(c *gin.Context, message string) {
	Error(c, http.StatusServiceUnavailable, message)
}
