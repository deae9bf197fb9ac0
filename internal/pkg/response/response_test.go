package response

import (
	"Ripple/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"param invalid", service.ErrParamInvalid, http.StatusBadRequest},
		{"depth exceeded", service.ErrDepthExceeded, http.StatusBadRequest},
		{"entity not found", service.ErrEntityNotFound, http.StatusNotFound},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"user exists", service.ErrUserExist, http.StatusConflict},
		{"password incorrect", service.ErrPasswordIncorrect, http.StatusUnauthorized},
		{"forbidden", service.ForbiddenError, http.StatusForbidden},
		{"unexpected", service.UnExpectedError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp.Code != tt.wantStatus {
				t.Errorf("body code = %d, want %d", resp.Code, tt.wantStatus)
			}
			if resp.Message != tt.err.Error() {
				t.Errorf("message = %q, want %q", resp.Message, tt.err.Error())
			}
		})
	}
}

func TestError_UnknownErrorMasked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, errors.New("dial tcp: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	// 内部错误细节不外泄
	if resp.Message != service.UnExpectedError.Error() {
		t.Errorf("message = %q, want generic error text", resp.Message)
	}
}
