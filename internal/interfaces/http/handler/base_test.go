package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/infrastructure/auth"
	"github.com/ecclesia/backend/internal/infrastructure/logger"
	"github.com/ecclesia/backend/internal/interfaces/http/dto"
	"github.com/ecclesia/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setIdentity simulates what the JWT and church middleware leave in the context
func setIdentity(c *gin.Context, churchID, userID uuid.UUID, role string) {
	c.Set(middleware.JWTClaimsKey, &auth.Claims{
		ChurchID: churchID.String(),
		UserID:   userID.String(),
		Email:    "ana@igreja.org",
		Role:     role,
	})
	c.Set(middleware.JWTUserIDKey, userID.String())
	c.Set(middleware.JWTChurchIDKey, churchID.String())
	c.Set(middleware.JWTRoleKey, role)
	c.Set(middleware.ChurchIDKey, churchID.String())
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set(logger.GinRequestIDKey, "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set(logger.GinRequestIDKey, "ctx-id")
				c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c)

			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.SuccessWithMeta(c, []string{"a", "b"}, 45, 2, 20)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandlerCreatedAndNoContent(t *testing.T) {
	h := &BaseHandler{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	h.Created(c, map[string]int{"id": 1})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	h.NoContent(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandlerErrorCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(logger.GinRequestIDKey, "req-42")

	h.NotFound(c, "Member not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load member: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"insufficient stock", shared.ErrInsufficientStock, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"domain rule keeps its code", shared.NewDomainError("PLAN_OVERLAP", "overlap"), http.StatusConflict, "PLAN_OVERLAP"},
		{"unmapped rule is 422", shared.NewDomainError("UNBALANCED_ENTRY", "debits != credits"), http.StatusUnprocessableEntity, "UNBALANCED_ENTRY"},
		{"invalid input prefix", shared.NewDomainError("INVALID_CNPJ", "bad"), http.StatusBadRequest, "INVALID_CNPJ"},
		{"payment declined", shared.NewDomainError("PAYMENT_DECLINED", "declined"), http.StatusPaymentRequired, dto.ErrCodePaymentDeclined},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}
}

func TestHandleError_Nil(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.HandleError(c, nil)
	assert.False(t, c.Writer.Written())
}

func TestRequireChurch(t *testing.T) {
	h := &BaseHandler{}

	t.Run("missing church", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		_, ok := h.requireChurch(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeChurchRequired, decodeResponse(t, w).Error.Code)
	})

	t.Run("resolved church", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		churchID := uuid.New()
		setIdentity(c, churchID, uuid.New(), "admin")

		id, ok := h.requireChurch(c)
		assert.True(t, ok)
		assert.Equal(t, churchID, id)
	})
}

func TestGetActorAndBuyer(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	churchID, userID := uuid.New(), uuid.New()
	setIdentity(c, churchID, userID, "admin")

	actor, err := getActor(c)
	require.NoError(t, err)
	assert.Equal(t, churchID, actor.ChurchID)
	assert.Equal(t, userID, actor.UserID)
	assert.Equal(t, "admin", string(actor.Role))

	buyer, err := getBuyer(c)
	require.NoError(t, err)
	assert.True(t, buyer.IsAdmin)
	assert.Equal(t, "ana@igreja.org", buyer.Email)

	empty, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err = getBuyer(empty)
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	router := gin.New()
	h := &BaseHandler{}
	router.GET("/members/:id", func(c *gin.Context) {
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}
		h.Success(c, id)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/members/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id format", decodeResponse(t, w).Error.Message)

	id := uuid.New()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/members/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), decodeResponse(t, w).Data)
}

func TestQueryHelpers(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	classroomID := uuid.New()
	c.Request = httptest.NewRequest(http.MethodGet, "/?month=7&bad=x&classroom_id="+classroomID.String(), nil)

	assert.Equal(t, 7, queryInt(c, "month", 1))
	assert.Equal(t, 3, queryInt(c, "bad", 3))
	assert.Equal(t, 9, queryInt(c, "absent", 9))

	id, err := parseUUIDQuery(c, "classroom_id")
	require.NoError(t, err)
	assert.Equal(t, classroomID, id)

	_, err = parseUUIDQuery(c, "magazine_id")
	assert.Error(t, err)
}
