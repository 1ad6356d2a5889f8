package errors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorConstructors(t *testing.T) {
	tests := []struct {
		name           string
		err            *AppError
		expectedMsg    string
		expectedCat    ErrorCategory
		expectedStatus int
	}{
		{
			name:           "validation error",
			err:            NewValidationError("username is required", "username"),
			expectedMsg:    "[VALIDATION_ERROR] username is required",
			expectedCat:    CategoryValidation,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "fetch error",
			err:            NewFetchError("GitHub", "/users/octocat/events/public", 500, "boom"),
			expectedMsg:    "[FETCH_ERROR] GitHub API error: status 500",
			expectedCat:    CategoryExternalAPI,
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "upstream rate limit",
			err:            NewUpstreamRateLimitError("GitHub", "/users/octocat/repos", 403, time.Time{}),
			expectedMsg:    "[RATE_LIMIT_EXCEEDED] GitHub API rate limit exceeded, try again later",
			expectedCat:    CategoryRateLimit,
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name:           "network error",
			err:            NewNetworkError("connection failed", fmt.Errorf("connection refused")),
			expectedMsg:    "[NETWORK_ERROR] connection failed",
			expectedCat:    CategoryNetwork,
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			assert.Equal(t, tt.expectedCat, tt.err.Category)
			assert.Equal(t, tt.expectedStatus, tt.err.HTTPStatus)
		})
	}
}

func TestFetchErrorCarriesUpstreamStatus(t *testing.T) {
	err := NewFetchError("GitHub", "/repos/a/b/commits", http.StatusConflict, "Git Repository is empty.")

	assert.Equal(t, http.StatusConflict, err.UpstreamStatus)
	assert.True(t, IsFetchError(err))
	assert.False(t, IsRateLimited(err))
	require.NotNil(t, err.Unwrap())
	assert.Contains(t, err.Unwrap().Error(), "Git Repository is empty.")
}

func TestUpstreamRateLimitResetAt(t *testing.T) {
	reset := time.Unix(1700000000, 0)
	err := NewUpstreamRateLimitError("GitHub", "/users/x/events/public", http.StatusTooManyRequests, reset)

	require.NotNil(t, err.ResetAt)
	assert.True(t, reset.Equal(*err.ResetAt))

	noReset := NewUpstreamRateLimitError("GitHub", "/users/x/events/public", http.StatusForbidden, time.Time{})
	assert.Nil(t, noReset.ResetAt)
}

func TestClassifiersSeeThroughWrapping(t *testing.T) {
	wrapped := WrapError(NewUpstreamRateLimitError("GitHub", "/x", 429, time.Time{}), "fetch commits for %s", "a/b")

	assert.True(t, IsRateLimited(wrapped))
	assert.False(t, IsFetchError(wrapped))
	assert.False(t, IsRateLimited(fmt.Errorf("plain")))
	assert.Nil(t, WrapError(nil, "ignored"))
}

func TestIsTimeout(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "deadline", err: context.DeadlineExceeded, expected: true},
		{name: "cancelled", err: context.Canceled, expected: true},
		{name: "wrapped deadline", err: fmt.Errorf("page 2: %w", context.DeadlineExceeded), expected: true},
		{name: "timeout app error", err: ToAppError(context.DeadlineExceeded), expected: true},
		{name: "rate limit", err: NewUpstreamRateLimitError("GitHub", "/x", 429, time.Time{})},
		{name: "fetch error", err: NewFetchError("GitHub", "/x", 409, "")},
		{name: "plain", err: fmt.Errorf("plain")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTimeout(tt.err))
		})
	}
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedCat ErrorCategory
	}{
		{"nil stays nil", nil, ""},
		{"app error passes through", NewValidationError("bad"), CategoryValidation},
		{"wrapped app error is unwrapped", fmt.Errorf("ctx: %w", NewFetchError("GitHub", "/x", 500, "")), CategoryExternalAPI},
		{"context canceled", context.Canceled, CategoryTimeout},
		{"deadline exceeded", fmt.Errorf("get: %w", context.DeadlineExceeded), CategoryTimeout},
		{"connection refused", fmt.Errorf("dial tcp: connection refused"), CategoryNetwork},
		{"errbuilder error", errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("x"), CategoryInternal},
		{"anything else", fmt.Errorf("standard error"), CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			if tt.err == nil {
				assert.Nil(t, appErr)
				return
			}
			require.NotNil(t, appErr)
			assert.Equal(t, tt.expectedCat, appErr.Category)
		})
	}
}

func TestErrorHandlerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(NewValidationError("username is required"))
	})
	r.GET("/panic", RecoveryHandler(), func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/fail", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"category":"validation"`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/panic", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"category":"internal"`)
}

func TestInternalErrorOutsideRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	appErr := NewInternalError("decode failed", fmt.Errorf("unexpected EOF"))
	assert.Equal(t, CategoryInternal, appErr.Category)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.NotEmpty(t, appErr.StackTrace)
	assert.Empty(t, appErr.RequestID)
}

func TestHandlersAttachRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(NewInternalError("boom", nil))
	})
	r.GET("/panic", RecoveryHandler(), func(c *gin.Context) {
		panic("kaboom")
	})

	for _, path := range []string{"/fail", "/panic"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("X-Request-ID", "req-123")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Contains(t, w.Body.String(), `"request_id":"req-123"`)
		})
	}
}
