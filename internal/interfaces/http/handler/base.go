package handler

import (
	"errors"
	"net/http"
	"strconv"

	apidentity "github.com/ecclesia/backend/internal/application/identity"
	appstore "github.com/ecclesia/backend/internal/application/store"
	"github.com/ecclesia/backend/internal/domain/identity"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/ecclesia/backend/internal/interfaces/http/dto"
	"github.com/ecclesia/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// getUserID extracts user ID from JWT claims
func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr := middleware.GetJWTUserID(c)
	if userIDStr == "" {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return uuid.Parse(userIDStr)
}

// getChurchID extracts the church resolved by the church middleware
func getChurchID(c *gin.Context) (uuid.UUID, error) {
	id := middleware.GetChurchUUID(c)
	if id == uuid.Nil {
		return uuid.Nil, errors.New("church ID not found in context")
	}
	return id, nil
}

// getActor builds the caller of a privileged user-management operation
func getActor(c *gin.Context) (apidentity.Actor, error) {
	userID, err := getUserID(c)
	if err != nil {
		return apidentity.Actor{}, err
	}
	churchID, err := getChurchID(c)
	if err != nil {
		return apidentity.Actor{}, err
	}
	return apidentity.Actor{
		UserID:   userID,
		ChurchID: churchID,
		Role:     identity.Role(middleware.GetJWTRole(c)),
	}, nil
}

// getBuyer builds the store buyer from the token claims
func getBuyer(c *gin.Context) (appstore.Buyer, error) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		return appstore.Buyer{}, errors.New("claims not found in context")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return appstore.Buyer{}, err
	}
	churchID, err := getChurchID(c)
	if err != nil {
		return appstore.Buyer{}, err
	}
	return appstore.Buyer{
		ChurchID: churchID,
		UserID:   userID,
		Email:    claims.Email,
		IsAdmin:  claims.IsAdmin(),
	}, nil
}

// requireChurch resolves the church or writes a 400
func (h *BaseHandler) requireChurch(c *gin.Context) (uuid.UUID, bool) {
	id, err := getChurchID(c)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeChurchRequired, "Church identification required")
		return uuid.Nil, false
	}
	return id, true
}

// requireBuyer resolves the store buyer or writes a 401
func (h *BaseHandler) requireBuyer(c *gin.Context) (appstore.Buyer, bool) {
	buyer, err := getBuyer(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return appstore.Buyer{}, false
	}
	return buyer, true
}

// requireUser resolves the caller or writes a 401
func (h *BaseHandler) requireUser(c *gin.Context) (uuid.UUID, bool) {
	id, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses a UUID path parameter or writes a 400
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body and writes the validation error on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds the query string and writes the validation error on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// parseUUIDQuery parses a required UUID query parameter
func parseUUIDQuery(c *gin.Context, name string) (uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return uuid.Nil, errors.New(name + " is required")
	}
	return uuid.Parse(raw)
}

// queryInt reads an integer query parameter, returning def when absent or malformed
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError is a generic error handler that handles both domain and standard errors.
// Domain rule codes keep their own name in the body; the status comes from the code.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.DomainHTTPStatus(domainErr.Code), code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err), zap.String("path", c.FullPath()))
	h.InternalError(c, "An unexpected error occurred")
}
