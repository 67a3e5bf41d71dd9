package middleware

import (
	"net/http"
	"slices"

	"github.com/ecclesia/backend/internal/domain/identity"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/ecclesia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	Logger *zap.Logger
	// OnDenied is called when the role check fails (optional)
	OnDenied func(c *gin.Context, required []identity.Role)
}

// RequireRole lets through callers holding any of the roles. Admins always pass.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !roleAllowed(c, roles) {
			handleRoleDenied(c, cfg, roles)
			return
		}
		c.Next()
	}
}

// RequireRoleForWrites lets every authenticated caller read and restricts
// POST, PUT, PATCH and DELETE to the given roles
func RequireRoleForWrites(roles ...identity.Role) gin.HandlerFunc {
	return RequireRoleForWritesWithConfig(RoleConfig{}, roles...)
}

// RequireRoleForWritesWithConfig creates write-guard middleware with custom config
func RequireRoleForWritesWithConfig(cfg RoleConfig, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isReadMethod(c.Request.Method) {
			c.Next()
			return
		}
		if !roleAllowed(c, roles) {
			handleRoleDenied(c, cfg, roles)
			return
		}
		c.Next()
	}
}

func roleAllowed(c *gin.Context, roles []identity.Role) bool {
	role := identity.Role(GetJWTRole(c))
	if role == "" {
		return false
	}
	return role == identity.RoleAdmin || slices.Contains(roles, role)
}

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func handleRoleDenied(c *gin.Context, cfg RoleConfig, required []identity.Role) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, required)
		return
	}

	if cfg.Logger != nil {
		names := make([]string, len(required))
		for i, r := range required {
			names[i] = string(r)
		}
		cfg.Logger.Warn("Role check failed",
			zap.String("user_id", GetJWTUserID(c)),
			zap.String("role", GetJWTRole(c)),
			zap.Strings("required_roles", names),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeForbidden,
		"Access denied: insufficient role",
		c.GetString(logger.GinRequestIDKey),
	))
}
