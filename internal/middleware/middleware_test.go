package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/openhacks/internal/app/models"
	"github.com/yigit/openhacks/internal/app/models/dto"
	"github.com/yigit/openhacks/internal/pkg/apperrors"
	"github.com/yigit/openhacks/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.APIResponse {
	t.Helper()
	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"validation", apperrors.NewValidationError("endAt", "end date must be after the start date"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"bad request", apperrors.NewBadRequestError("must register before creating a team"), http.StatusBadRequest, dto.ErrorCodeBadRequest},
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"invalid token", fmt.Errorf("%w: bad signature", apperrors.ErrTokenInvalid), http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"forbidden", apperrors.NewForbiddenError("only the team owner can perform this action"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"not found", apperrors.NewResourceNotFoundError("event not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"event started", apperrors.NewEventStartedError(), http.StatusConflict, dto.ErrorCodeEventStarted},
		{"conflict", apperrors.NewConflictError("already registered"), http.StatusConflict, dto.ErrorCodeConflict},
		{"wrapped conflict", fmt.Errorf("outer: %w", apperrors.NewConflictError("already registered")), http.StatusConflict, dto.ErrorCodeConflict},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleAPIErrorHidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password")
}

func TestHandleAPIErrorCarriesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/profile", nil)

	err := apperrors.NewCustomError(apperrors.ErrConflict, "delete your events first").
		WithDetails(map[string]any{"organizedEvents": 2})
	HandleAPIError(c, err)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "delete your events first", resp.Error.Message)
	assert.Equal(t, map[string]any{"organizedEvents": float64(2)}, resp.Error.Details)
}

type bindRequest struct {
	Name string `json:"name" validate:"required,min=3"`
}

func TestBindJSON(t *testing.T) {
	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req bindRequest
		if !BindJSON(c, &req) {
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"valid", `{"name":"Ada"}`, http.StatusOK, ""},
		{"malformed", `{"name":`, http.StatusBadRequest, ""},
		{"too short", `{"name":"A"}`, http.StatusBadRequest, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, w.Code)
			if tt.field != "" {
				assert.Equal(t, tt.field, decode(t, w).Error.Field)
			}
		})
	}
}

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*auth.Principal, error) {
	switch token {
	case "good":
		return &auth.Principal{Subject: "kc-1", Email: "ada@example.com"}, nil
	case "expired":
		return nil, apperrors.ErrTokenExpired
	default:
		return nil, apperrors.ErrTokenInvalid
	}
}

type stubIdentity struct{}

func (stubIdentity) Resolve(_ context.Context, p *auth.Principal) (*models.User, error) {
	return &models.User{ID: p.Subject, Email: p.Email}, nil
}

func identityRouter(handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/", handler, func(c *gin.Context) {
		user := GetCurrentUser(c)
		email := ""
		if user != nil {
			email = user.Email
		}
		c.JSON(http.StatusOK, gin.H{"userID": GetUserID(c), "email": email})
	})
	return router
}

func TestRequireIdentity(t *testing.T) {
	m := NewAuthMiddleware(stubVerifier{}, stubIdentity{})
	router := identityRouter(m.RequireIdentity())

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"bearer header", "Bearer good", "", http.StatusOK},
		{"raw token", "good", "", http.StatusOK},
		{"query token", "", "good", http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"expired", "Bearer expired", "", http.StatusUnauthorized},
		{"invalid", "Bearer forged", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"userID":"kc-1"`)
				assert.Contains(t, w.Body.String(), `"email":"ada@example.com"`)
			}
		})
	}
}

func TestOptionalIdentity(t *testing.T) {
	m := NewAuthMiddleware(stubVerifier{}, stubIdentity{})
	router := identityRouter(m.OptionalIdentity())

	for header, want := range map[string]string{"": "", "Bearer forged": "", "Bearer good": "kc-1"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, header)
		assert.Contains(t, w.Body.String(), `"userID":"`+want+`"`, header)
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))

	now = now.Add(time.Hour)
	rl.Allow("10.0.0.3")
	assert.Len(t, rl.limiters, 1)
}

func TestRateLimiterMiddleware(t *testing.T) {
	router := gin.New()
	router.POST("/events", NewRateLimiter(0.001, 1).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	codes := []int{}
	for range 2 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/events", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestCORSPreflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://openhacks.dev"}))
	router.GET("/events", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/events", nil)
	req.Header.Set("Origin", "https://openhacks.dev")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://openhacks.dev", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(zerolog.Nop()), Metrics())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrorCodeInternalServer, decode(t, w).Error.Code)
}
