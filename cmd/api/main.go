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
	"go.uber.org/multierr"

	"github.com/oceannemj/site-web-JKM/api/routes"
	"github.com/oceannemj/site-web-JKM/internal/dashboard"
	"github.com/oceannemj/site-web-JKM/internal/orders"
	"github.com/oceannemj/site-web-JKM/internal/revenue"
	"github.com/oceannemj/site-web-JKM/internal/stock"
	"github.com/oceannemj/site-web-JKM/pkg/config"
	"github.com/oceannemj/site-web-JKM/pkg/db"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
	"github.com/oceannemj/site-web-JKM/pkg/metrics"
	"github.com/oceannemj/site-web-JKM/pkg/migrate"
	"github.com/oceannemj/site-web-JKM/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

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
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := openDatabase(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.Bootstrap(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to prepare schema", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "redis not configured; idempotency and dashboard cache disabled")
	}

	defer func() {
		if err := closeAll(dbClient, redisClient); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	orderMetrics := metrics.NewOrderMetrics(registry)

	deps, err := buildServices(cfg, logg, dbClient, redisClient, orderMetrics)
	if err != nil {
		logg.Error(ctx, "failed to wire services", err)
		os.Exit(1)
	}
	deps.Metrics = registry

	addr := ":" + cfg.App.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"sqlite": cfg.FeatureFlags.UseSQLite,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
		return
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
	}
}

func openDatabase(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*db.Client, error) {
	if cfg.FeatureFlags.UseSQLite {
		return db.NewSQLite(ctx, cfg.FeatureFlags.SQLitePath, logg)
	}
	return db.New(ctx, cfg.DB, logg)
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, orderMetrics *metrics.OrderMetrics) (routes.Deps, error) {
	dashboardDeps := dashboard.ServiceDeps{
		Repo:    dashboard.NewRepository(dbClient.DB()),
		Metrics: orderMetrics,
		Logger:  logg,
		Options: dashboard.Options{
			CacheTTL:               cfg.Dashboard.CacheTTL,
			CriticalStockThreshold: cfg.Orders.CriticalStockThreshold,
			LowStockThreshold:      cfg.Orders.LowStockThreshold,
		},
	}
	if redisClient != nil {
		dashboardDeps.Cache = redisClient
	}
	dashboardSvc, err := dashboard.NewService(dashboardDeps)
	if err != nil {
		return routes.Deps{}, err
	}

	recorder, err := revenue.NewService(revenue.NewRepository(dbClient.DB()))
	if err != nil {
		return routes.Deps{}, err
	}

	orderSvc, err := orders.NewService(orders.ServiceDeps{
		Repo: orders.NewRepository(dbClient.DB()),
		Tx:   dbClient,
		Stock: stock.NewLedger(stock.LedgerOptions{
			AllowNegative: cfg.Orders.AllowNegativeStock,
			Observer:      orderMetrics,
		}),
		Revenue: recorder,
		Metrics: orderMetrics,
		Cache:   dashboardSvc,
		Logger:  logg,
		Options: orders.Options{
			StrictLines:   cfg.Orders.StrictLines,
			BenefitsLimit: cfg.Orders.BenefitsLimit,
		},
	})
	if err != nil {
		return routes.Deps{}, err
	}

	stockSvc, err := stock.NewService(dbClient, orderMetrics, dashboardSvc, logg)
	if err != nil {
		return routes.Deps{}, err
	}

	return routes.Deps{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Redis:     redisClient,
		Orders:    orderSvc,
		Stock:     stockSvc,
		Dashboard: dashboardSvc,
	}, nil
}

func closeAll(dbClient *db.Client, redisClient *redis.Client) error {
	var err error
	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}
	return multierr.Append(err, dbClient.Close())
}
