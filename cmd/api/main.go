package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kiranakart/kiranakart-backend/api/routes"
	"github.com/kiranakart/kiranakart-backend/internal/catalog"
	checkoutsvc "github.com/kiranakart/kiranakart-backend/internal/checkout"
	"github.com/kiranakart/kiranakart-backend/internal/identity"
	"github.com/kiranakart/kiranakart-backend/internal/location"
	"github.com/kiranakart/kiranakart-backend/internal/orders"
	"github.com/kiranakart/kiranakart-backend/internal/profile"
	"github.com/kiranakart/kiranakart-backend/internal/storefront"
	"github.com/kiranakart/kiranakart-backend/internal/users"
	"github.com/kiranakart/kiranakart-backend/pkg/auth/session"
	"github.com/kiranakart/kiranakart-backend/pkg/config"
	"github.com/kiranakart/kiranakart-backend/pkg/db"
	"github.com/kiranakart/kiranakart-backend/pkg/geo"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
	"github.com/kiranakart/kiranakart-backend/pkg/metrics"
	"github.com/kiranakart/kiranakart-backend/pkg/migrate"
	"github.com/kiranakart/kiranakart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	if cfg.App.IsDev() && cfg.FeatureFlags.SeedCatalog {
		if err := catalog.SeedDemoCatalog(ctx, dbClient.DB()); err != nil {
			logg.Error(ctx, "failed to seed demo catalog", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	profileRepo := profile.NewRepository(dbClient.DB())

	identityService, err := identity.NewService(identity.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		ProfileRepo:    profileRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create identity service", err)
		os.Exit(1)
	}

	profileService, err := profile.NewService(profileRepo)
	if err != nil {
		logg.Error(ctx, "failed to create profile service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storefrontMetrics := metrics.NewStorefrontMetrics(promRegistry)

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		OrderSink:   ordersRepo,
		ProfileRepo: profileService,
		Config:      cfg.Checkout,
		Metrics:     storefrontMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	registry, err := storefront.NewRegistry(storefront.RegistryParams{
		Identity:   identityService,
		Profiles:   profileService,
		Blobs:      storefront.RedisBlobFactory(redisClient, cfg.Storefront.BlobTTL),
		JWTConfig:  cfg.JWT,
		Location:   cfg.Location,
		Storefront: cfg.Storefront,
		Resolvers:  resolverChain(cfg.Geo, logg),
		Metrics:    storefrontMetrics,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create storefront registry", err)
		os.Exit(1)
	}
	registry.StartSweeper(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionChecker: sessionManager,
			Identity:       identityService,
			Profiles:       profileService,
			Catalog:        catalogService,
			Orders:         ordersService,
			Checkout:       checkoutService,
			Registry:       registry,
			Metrics:        promRegistry,
		}),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "error shutting down api server", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(startCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(startCtx, "api server stopped")
}

// resolverChain builds the ordered reverse-geocoding chain: two network
// providers, then the offline centroid table as the last word before
// unresolved.
func resolverChain(cfg config.GeoConfig, logg *logger.Logger) []location.NamedResolver {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	chain := []location.NamedResolver{
		{
			Name: "bigdatacloud",
			Resolver: geo.NewBigDataCloudClient(
				geo.WithBaseURL(cfg.BigDataCloudBaseURL),
				geo.WithHTTPClient(httpClient),
			),
		},
	}

	nominatim, err := geo.NewNominatimClient(
		cfg.NominatimUserAgent,
		geo.WithBaseURL(cfg.NominatimBaseURL),
		geo.WithHTTPClient(httpClient),
	)
	if err != nil {
		logg.Warn(context.Background(), "nominatim resolver disabled: "+err.Error())
	} else {
		chain = append(chain, location.NamedResolver{Name: "nominatim", Resolver: nominatim})
	}

	chain = append(chain, location.NamedResolver{
		Name:     "centroid",
		Resolver: geo.NewCentroidMatcher(geo.AnantapurCentroids),
	})
	return chain
}
