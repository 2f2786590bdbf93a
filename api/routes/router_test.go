package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kiranakart/kiranakart-backend/pkg/config"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "test", ExpirationMinutes: 15},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:    time.Minute,
			LoginIPLimit:   20,
			RegisterWindow: time.Minute,
		},
	}
}

func TestRouterServesLiveness(t *testing.T) {
	t.Parallel()

	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")})
	router := NewRouter(Deps{Config: testConfig(), Logger: logg})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health/live, got %d", w.Code)
	}
	if env := w.Header().Get("X-KiranaKart-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestRouterServesMetricsWhenRegistryProvided(t *testing.T) {
	t.Parallel()

	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")})
	router := NewRouter(Deps{Config: testConfig(), Logger: logg, Metrics: prometheus.NewRegistry()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", w.Code)
	}
}

func TestRouterOmitsMetricsWithoutRegistry(t *testing.T) {
	t.Parallel()

	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")})
	router := NewRouter(Deps{Config: testConfig(), Logger: logg})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a metrics registry, got %d", w.Code)
	}
}

func TestRouterRequiresAuthForOrders(t *testing.T) {
	t.Parallel()

	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")})
	router := NewRouter(Deps{Config: testConfig(), Logger: logg})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", w.Code)
	}
}
