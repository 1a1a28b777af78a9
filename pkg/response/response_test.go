package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", domain.NewValidationError("name", "folder name can not be empty"), http.StatusUnprocessableEntity, "name: folder name can not be empty"},
		{"conflict", domain.NewConflictError("folder", "Tech"), http.StatusConflict, `folder with name "Tech" already exists`},
		{"not found", fmt.Errorf("wrapped: %w", domain.NewNotFoundError("folder", 3)), http.StatusNotFound, "wrapped: folder 3 not found"},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var body ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if body.Message != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, body.Message)
			}
			if !c.IsAborted() {
				t.Error("Expected request to be aborted")
			}
			if len(c.Errors) != 1 {
				t.Errorf("Expected the error to be attached, got %d", len(c.Errors))
			}
		})
	}
}

func TestFromError_Nil(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, nil)

	if w.Code != http.StatusOK || w.Body.String() != "{}" {
		t.Errorf("Expected empty 200, got %d %s", w.Code, w.Body.String())
	}
}
