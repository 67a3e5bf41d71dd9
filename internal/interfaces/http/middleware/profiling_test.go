package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/ecclesia/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProfiling_SetsLabels(t *testing.T) {
	churchID := uuid.NewString()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ChurchIDKey, churchID)
		c.Next()
	})
	router.Use(Profiling(DefaultProfilingConfig()))

	var route, church string
	router.GET("/api/v1/members/:id", func(c *gin.Context) {
		route, _ = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelRoute)
		church, _ = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelChurchID)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/members/7", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/members/:id", route)
	assert.Equal(t, churchID, church)
}

func TestProfiling_SkipsAndDisabled(t *testing.T) {
	for name, cfg := range map[string]ProfilingConfig{
		"skipped":  DefaultProfilingConfig(),
		"disabled": {Enabled: false},
	} {
		t.Run(name, func(t *testing.T) {
			router := gin.New()
			router.Use(Profiling(cfg))

			var labelled bool
			router.GET("/health", func(c *gin.Context) {
				_, labelled = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelMethod)
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.False(t, labelled)
		})
	}
}
