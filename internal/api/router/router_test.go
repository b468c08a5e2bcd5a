package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberly/booking-engine/internal/http/handlers"
	"github.com/barberly/booking-engine/internal/observability/metrics"
	"github.com/barberly/booking-engine/internal/wizard"
	"github.com/barberly/booking-engine/pkg/logging"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	registry := prometheus.NewRegistry()
	engine := wizard.NewEngine(wizard.EngineConfig{
		Store:    wizard.NewMemoryStore(),
		Metrics:  metrics.NewBookingMetrics(registry),
		Timezone: time.UTC,
	})
	return New(&Config{
		Logger:             logging.Default(),
		Booking:            handlers.NewBookingHandler(engine, nil),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"https://booking.example.com"},
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRouteIs404(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionRouteWired(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/booking/sessions", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCORSHeadersApplied(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://booking.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "https://booking.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
