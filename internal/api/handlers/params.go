package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/internal/validator"
	"github.com/amiyamandal-dev/newsreader/pkg/response"
)

// QueryParamParser provides helpers for parsing and validating query
// parameters. The first failure sticks and later calls return defaults.
type QueryParamParser struct {
	c   *gin.Context
	err error
}

// NewQueryParamParser creates a new query parameter parser
func NewQueryParamParser(c *gin.Context) *QueryParamParser {
	return &QueryParamParser{c: c}
}

// Error returns any parsing error that occurred
func (p *QueryParamParser) Error() error {
	return p.err
}

// Int64 parses an integer parameter
func (p *QueryParamParser) Int64(key string, defaultValue int64) int64 {
	if p.err != nil {
		return defaultValue
	}

	raw := strings.TrimSpace(p.c.Query(key))
	if raw == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.err = domain.NewValidationError(key, fmt.Sprintf("invalid '%s' parameter: must be a number", key))
		return defaultValue
	}
	return parsed
}

// Int parses an int parameter
func (p *QueryParamParser) Int(key string, defaultValue int) int {
	return int(p.Int64(key, int64(defaultValue)))
}

// Bool parses a boolean parameter; accepts true/false and 1/0
func (p *QueryParamParser) Bool(key string, defaultValue bool) bool {
	if p.err != nil {
		return defaultValue
	}

	raw := strings.TrimSpace(p.c.Query(key))
	if raw == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		p.err = domain.NewValidationError(key, fmt.Sprintf("invalid '%s' parameter: must be a boolean", key))
		return defaultValue
	}
	return parsed
}

// FeedType parses a feed type given by number or name
func (p *QueryParamParser) FeedType(key string, defaultValue domain.FeedType) domain.FeedType {
	if p.err != nil {
		return defaultValue
	}

	raw := p.c.Query(key)
	if raw == "" {
		return defaultValue
	}

	parsed, err := domain.ParseFeedType(raw)
	if err != nil {
		p.err = err
		return defaultValue
	}
	return parsed
}

// pathID parses a positive integer path parameter. On failure it writes the
// error response and returns false.
func pathID(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		response.FromError(c, domain.NewValidationError(key, fmt.Sprintf("invalid '%s': must be a positive number", key)))
		return 0, false
	}
	return id, true
}

// bindJSON decodes the request body. On failure it writes the error response
// and returns false.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		verr := validator.FromError(err)
		if _, ok := domain.KindOf(verr); !ok {
			verr = domain.NewValidationError("body", "malformed request body")
		}
		response.FromError(c, verr)
		return false
	}
	return true
}
