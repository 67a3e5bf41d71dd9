package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/ecclesia/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg config.SwaggerConfig) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func swaggerRequest(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection_Disabled(t *testing.T) {
	w := swaggerRequest(swaggerRouter(config.SwaggerConfig{Enabled: false}), "10.0.0.1:1234")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSwaggerProtection_NoRestrictions(t *testing.T) {
	w := swaggerRequest(swaggerRouter(config.SwaggerConfig{Enabled: true}), "203.0.113.9:1234")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "docs", w.Body.String())
}

func TestSwaggerProtection_Whitelist(t *testing.T) {
	router := swaggerRouter(config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.1.10", "10.0.0.0/8"}})

	assert.Equal(t, http.StatusOK, swaggerRequest(router, "192.168.1.10:5000").Code)
	assert.Equal(t, http.StatusOK, swaggerRequest(router, "10.20.30.40:5000").Code)
	assert.Equal(t, http.StatusForbidden, swaggerRequest(router, "192.168.1.11:5000").Code)
}

func TestIPAllowed(t *testing.T) {
	prefixes := []netip.Prefix{netip.MustParsePrefix("172.16.0.0/12")}

	assert.True(t, ipAllowed("172.16.5.4", prefixes))
	assert.True(t, ipAllowed("::ffff:172.16.5.4", prefixes))
	assert.False(t, ipAllowed("172.32.0.1", prefixes))
	assert.False(t, ipAllowed("not-an-ip", prefixes))
}
