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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/routes"
	"github.com/angelmondragon/storefront/internal/branding"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/notifications"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/migrate"
	"github.com/angelmondragon/storefront/pkg/redis"
	"github.com/angelmondragon/storefront/pkg/session"
)

const shutdownTimeout = 20 * time.Second

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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	// Redis is optional: without it carts are uncached, orders get no number and
	// checkout is not idempotency-guarded.
	var (
		redisClient *redis.Client
		cartCache   cart.ViewCache
		sequence    interface {
			NextSequence(ctx context.Context, name string) (int64, error)
		}
		idempotency redis.IdempotencyStore
		logoHash    *redis.Client
	)
	readiness := map[string]controllers.Pinger{"db": dbClient}
	redisClient, err = redis.New(ctx, cfg.Redis, logg)
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		logg.Warn(ctx, "redis not configured, running without cache")
	case err != nil:
		return err
	default:
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		cartCache = cart.NewRedisViewCache(redisClient, cfg.Redis.CartCacheTTL)
		sequence = redisClient
		idempotency = redisClient
		logoHash = redisClient
		readiness["redis"] = redisClient
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storefrontMetrics := metrics.NewStorefront(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		return err
	}

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), catalogRepo, cartCache, logg)
	if err != nil {
		return err
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, sequence, storefrontMetrics, logg)
	if err != nil {
		return err
	}

	var provider notifications.EmailProvider
	if sg := notifications.NewSendGridProvider(cfg.Sendgrid); sg != nil {
		provider = sg
	} else {
		logg.Warn(ctx, "sendgrid api key missing, order confirmations disabled")
	}
	notificationsService, err := notifications.NewService(provider, logg)
	if err != nil {
		return err
	}

	rules, err := checkout.RulesFromConfig(cfg.Pricing)
	if err != nil {
		return err
	}
	engine, err := checkout.NewEngine(rules)
	if err != nil {
		return err
	}
	checkoutService, err := checkout.NewService(engine, cartService, ordersService, notificationsService, storefrontMetrics, logg)
	if err != nil {
		return err
	}

	var brandingCache *branding.Cache
	if logoHash != nil {
		brandingCache, err = branding.NewCache(branding.NewRepository(dbClient.DB()), logoHash, cfg.Branding, storefrontMetrics, logg)
	} else {
		brandingCache, err = branding.NewCache(branding.NewRepository(dbClient.DB()), nil, cfg.Branding, storefrontMetrics, logg)
	}
	if err != nil {
		return err
	}

	handler := routes.NewRouter(
		cfg,
		logg,
		readiness,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		session.NewIdentity(cfg.Session.CookieName, logg),
		idempotency,
		catalogService,
		cartService,
		checkoutService,
		ordersService,
		notificationsService,
		brandingCache,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(serverCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
