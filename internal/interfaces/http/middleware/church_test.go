package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockChurchValidator struct {
	mock.Mock
}

func (m *mockChurchValidator) ValidateChurch(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func churchRouter(cfg ChurchMiddlewareConfig, jwtChurch string) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if jwtChurch != "" {
			c.Set(JWTChurchIDKey, jwtChurch)
		}
		c.Next()
	})
	router.Use(ChurchMiddlewareWithConfig(cfg))
	router.GET("/api/v1/members", func(c *gin.Context) {
		c.String(http.StatusOK, GetChurchUUID(c).String())
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, GetChurchID(c))
	})
	return router
}

func TestChurchMiddleware_FromJWT(t *testing.T) {
	churchID := uuid.New()
	router := churchRouter(DefaultChurchConfig(), churchID.String())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, churchID.String(), rec.Body.String())
}

func TestChurchMiddleware_Header(t *testing.T) {
	churchID := uuid.New()

	t.Run("ignored unless enabled", func(t *testing.T) {
		router := churchRouter(DefaultChurchConfig(), "")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
		req.Header.Set(ChurchHeaderKey, churchID.String())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeChurchRequired, decodeError(t, rec).Code)
	})

	t.Run("accepted when enabled", func(t *testing.T) {
		cfg := DefaultChurchConfig()
		cfg.HeaderEnabled = true
		router := churchRouter(cfg, "")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
		req.Header.Set(ChurchHeaderKey, churchID.String())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, churchID.String(), rec.Body.String())
	})

	t.Run("jwt wins over header", func(t *testing.T) {
		cfg := DefaultChurchConfig()
		cfg.HeaderEnabled = true
		jwtChurch := uuid.New()
		router := churchRouter(cfg, jwtChurch.String())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
		req.Header.Set(ChurchHeaderKey, churchID.String())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, jwtChurch.String(), rec.Body.String())
	})
}

func TestChurchMiddleware_InvalidAndOptional(t *testing.T) {
	rec := httptest.NewRecorder()
	churchRouter(DefaultChurchConfig(), "not-a-uuid").
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	cfg := DefaultChurchConfig()
	cfg.Required = false
	rec = httptest.NewRecorder()
	churchRouter(cfg, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uuid.Nil.String(), rec.Body.String())
}

func TestChurchMiddleware_SkipPaths(t *testing.T) {
	rec := httptest.NewRecorder()
	churchRouter(DefaultChurchConfig(), "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestChurchMiddleware_Validator(t *testing.T) {
	churchID := uuid.New()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"active", nil, http.StatusOK, ""},
		{"missing", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"inactive", shared.NewDomainError("CHURCH_INACTIVE", "Church is inactive"), http.StatusForbidden, dto.ErrCodeForbidden},
		{"lookup failure", errors.New("connection refused"), http.StatusForbidden, dto.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := new(mockChurchValidator)
			validator.On("ValidateChurch", mock.Anything, churchID).Return(tt.err)

			cfg := DefaultChurchConfig()
			cfg.Validator = validator
			rec := httptest.NewRecorder()
			churchRouter(cfg, churchID.String()).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, rec).Code)
			}
			validator.AssertExpectations(t)
		})
	}
}
