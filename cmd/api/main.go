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
	"go.uber.org/multierr"

	"github.com/angelmondragon/crossborder-pricing/api/routes"
	"github.com/angelmondragon/crossborder-pricing/internal/countries"
	"github.com/angelmondragon/crossborder-pricing/internal/customs"
	"github.com/angelmondragon/crossborder-pricing/internal/exchange"
	"github.com/angelmondragon/crossborder-pricing/internal/payments"
	"github.com/angelmondragon/crossborder-pricing/internal/quote"
	internalroutes "github.com/angelmondragon/crossborder-pricing/internal/routes"
	"github.com/angelmondragon/crossborder-pricing/internal/shipping"
	"github.com/angelmondragon/crossborder-pricing/pkg/config"
	"github.com/angelmondragon/crossborder-pricing/pkg/db"
	"github.com/angelmondragon/crossborder-pricing/pkg/env"
	"github.com/angelmondragon/crossborder-pricing/pkg/logger"
	"github.com/angelmondragon/crossborder-pricing/pkg/metrics"
	"github.com/angelmondragon/crossborder-pricing/pkg/migrate"
	"github.com/angelmondragon/crossborder-pricing/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	pricingMetrics := metrics.NewPricingMetrics(registry)

	// Redis is optional; without it the rate cache lives in process memory.
	var rateCache exchange.RateCache
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		rateCache = exchange.NewRedisCache(redisClient, cfg.Pricing.RateCacheTTL, logg)
	} else {
		logg.Warn(context.Background(), "redis not configured, using in-process rate cache")
		rateCache = exchange.NewMemoryCache(cfg.Pricing.RateCacheTTL, nil)
	}

	routeRepo := internalroutes.NewRepository(dbClient.DB())
	countryRepo := countries.NewRepository(dbClient.DB())
	tierRepo := customs.NewRepository(dbClient.DB())
	ledgerRepo := payments.NewRepository(dbClient.DB())

	rateService, err := exchange.NewService(routeRepo, countryRepo, rateCache, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create exchange rate service", err)
		os.Exit(1)
	}
	shippingService, err := shipping.NewService(routeRepo, countryRepo, cfg.Pricing, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}
	customsService, err := customs.NewService(tierRepo, countryRepo, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create customs service", err)
		os.Exit(1)
	}
	quoteService, err := quote.NewService(rateService, shippingService, customsService, countryRepo, cfg.Pricing, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}
	paymentsService, err := payments.NewService(ledgerRepo, cfg.Pricing, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, registry, rateService, quoteService, paymentsService),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if srvErr := <-errCh; srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			err = multierr.Append(err, srvErr)
		}
		if err != nil {
			logg.Error(ctx, "shutdown incomplete", err)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
