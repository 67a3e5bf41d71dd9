package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/ecclesia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ChurchIDKey     = logger.GinChurchIDKey
	ChurchHeaderKey = "X-Church-ID"
)

// ChurchValidator checks that a church exists and is active
type ChurchValidator interface {
	ValidateChurch(ctx context.Context, id uuid.UUID) error
}

// ChurchMiddlewareConfig holds configuration for the church scoping middleware
type ChurchMiddlewareConfig struct {
	// HeaderEnabled accepts X-Church-ID when no token carries a church (development)
	HeaderEnabled bool
	SkipPaths     []string
	// Required rejects requests that resolve no church
	Required  bool
	Validator ChurchValidator
	Logger    *zap.Logger
}

// DefaultChurchConfig returns default church middleware configuration
func DefaultChurchConfig() ChurchMiddlewareConfig {
	return ChurchMiddlewareConfig{
		SkipPaths: []string{"/health", "/ready"},
		Required:  true,
	}
}

// ChurchMiddleware resolves the church every request is scoped to.
// Extraction order: JWT claims > X-Church-ID header
func ChurchMiddleware() gin.HandlerFunc {
	return ChurchMiddlewareWithConfig(DefaultChurchConfig())
}

// ChurchMiddlewareWithConfig returns church middleware with custom configuration
func ChurchMiddlewareWithConfig(cfg ChurchMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		churchID := GetJWTChurchID(c)
		method := "jwt"
		if churchID == "" && cfg.HeaderEnabled {
			churchID = c.GetHeader(ChurchHeaderKey)
			method = "header"
		}

		if churchID == "" {
			if cfg.Required {
				respondChurchError(c, http.StatusBadRequest, dto.ErrCodeChurchRequired, "Church identification required")
				return
			}
			c.Next()
			return
		}

		id, err := uuid.Parse(churchID)
		if err != nil {
			respondChurchError(c, http.StatusBadRequest, dto.ErrCodeChurchRequired, "Invalid church ID format")
			return
		}

		if cfg.Validator != nil {
			if err := cfg.Validator.ValidateChurch(c.Request.Context(), id); err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Church validation failed", zap.String("church_id", churchID), zap.Error(err))

				if errors.Is(err, shared.ErrNotFound) {
					respondChurchError(c, http.StatusNotFound, dto.ErrCodeNotFound, "Church not found")
				} else {
					respondChurchError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Church is not active")
				}
				return
			}
		}

		c.Set(ChurchIDKey, id.String())
		c.Request = c.Request.WithContext(logger.WithChurchID(c.Request.Context(), id.String()))

		if cfg.Logger != nil {
			cfg.Logger.Debug("Church identified",
				zap.String("church_id", churchID),
				zap.String("method", method),
			)
		}

		c.Next()
	}
}

func respondChurchError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, c.GetString(logger.GinRequestIDKey)))
}

// GetChurchID retrieves the church ID resolved by ChurchMiddleware
func GetChurchID(c *gin.Context) string {
	return c.GetString(ChurchIDKey)
}

// GetChurchUUID retrieves the church ID as UUID; uuid.Nil when the request is not church scoped
func GetChurchUUID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(GetChurchID(c))
	if err != nil {
		return uuid.Nil
	}
	return id
}
