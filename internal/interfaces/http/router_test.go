package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juberis/reqtrack/internal/interfaces/http/handlers"
)

func TestRouterHealthEndpoints(t *testing.T) {
	r := NewRouter(RouterConfig{
		Mode:          gin.TestMode,
		HealthHandler: handlers.NewHealthHandler("test"),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# HELP reqtrack_http_requests_total\n"))
	})
	r := NewRouter(RouterConfig{
		Mode:           gin.TestMode,
		MetricsHandler: metricsHandler,
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reqtrack_http_requests_total")
}

func TestRouterUnregisteredRoute(t *testing.T) {
	r := NewRouter(RouterConfig{Mode: gin.TestMode})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/deadlines/inputs", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterAssignsRequestID(t *testing.T) {
	r := NewRouter(RouterConfig{
		Mode:          gin.TestMode,
		HealthHandler: handlers.NewHealthHandler("test"),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
