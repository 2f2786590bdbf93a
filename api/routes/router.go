package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kiranakart/kiranakart-backend/api/controllers"
	"github.com/kiranakart/kiranakart-backend/api/middleware"
	"github.com/kiranakart/kiranakart-backend/internal/catalog"
	checkoutsvc "github.com/kiranakart/kiranakart-backend/internal/checkout"
	"github.com/kiranakart/kiranakart-backend/internal/identity"
	"github.com/kiranakart/kiranakart-backend/internal/orders"
	"github.com/kiranakart/kiranakart-backend/internal/profile"
	"github.com/kiranakart/kiranakart-backend/internal/storefront"
	"github.com/kiranakart/kiranakart-backend/pkg/auth/session"
	"github.com/kiranakart/kiranakart-backend/pkg/config"
	"github.com/kiranakart/kiranakart-backend/pkg/db"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
	"github.com/kiranakart/kiranakart-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	Identity       identity.Service
	Profiles       profile.Service
	Catalog        catalog.Service
	Orders         orders.Service
	Checkout       checkoutsvc.Service
	Registry       *storefront.Registry
	Metrics        *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// typed-nil *redis.Client would defeat the pinger nil check
	var redisPinger redis.Pinger
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ClientSession(logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
				Post("/register", controllers.AuthRegister(deps.Registry, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", controllers.AuthLogin(deps.Registry, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Registry, deps.Identity, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Identity, logg))
		})

		r.Route("/shops", func(r chi.Router) {
			r.Get("/", controllers.ShopsList(deps.Catalog, logg))
			r.Get("/{shopId}", controllers.ShopDetail(deps.Catalog, logg))
			r.Get("/{shopId}/products", controllers.ShopProducts(deps.Catalog, logg))
		})
		r.Get("/products/{productId}", controllers.ProductDetail(deps.Catalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Registry, logg))
			r.Delete("/", controllers.CartClear(deps.Registry, logg))
			r.Post("/items", controllers.CartAdd(deps.Registry, deps.Catalog, logg))
			r.Put("/items/{productId}", controllers.CartSetQuantity(deps.Registry, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Registry, logg))
			r.Post("/switch/confirm", controllers.CartConfirmSwitch(deps.Registry, logg))
			r.Post("/switch/cancel", controllers.CartCancelSwitch(deps.Registry, logg))
		})

		r.Route("/search/history", func(r chi.Router) {
			r.Get("/", controllers.SearchHistory(deps.Registry, logg))
			r.Post("/", controllers.SearchRecord(deps.Registry, logg))
			r.Delete("/", controllers.SearchClear(deps.Registry, logg))
		})

		r.Post("/navigate", controllers.Navigate(deps.Registry, logg))
		r.Post("/navigate/resume", controllers.NavigateResume(deps.Registry, logg))

		r.Route("/location", func(r chi.Router) {
			r.Get("/", controllers.LocationState(deps.Registry, cfg.Location, logg))
			r.Post("/fix", controllers.LocationFix(deps.Registry, logg))
			r.Post("/denied", controllers.LocationDenied(deps.Registry, logg))
			r.Post("/unavailable", controllers.LocationUnavailable(deps.Registry, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

			r.Get("/profile", controllers.ProfileGet(deps.Profiles, logg))
			r.Put("/profile", controllers.ProfileUpdate(deps.Profiles, deps.Registry, logg))

			r.Post("/checkout", controllers.Checkout(deps.Registry, deps.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(deps.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			})
		})
	})

	return r
}
