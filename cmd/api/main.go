package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/storefront-cart/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-cart/api/controllers/cart"
	"github.com/angelmondragon/storefront-cart/api/routes"
	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/catalog"
	"github.com/angelmondragon/storefront-cart/internal/checkout"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"github.com/angelmondragon/storefront-cart/pkg/instance"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/angelmondragon/storefront-cart/pkg/pubsub"
	"github.com/angelmondragon/storefront-cart/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "cart-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cart-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "cart api stopped unexpectedly", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cartMetrics := metrics.NewCartMetrics(reg)

	products, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}
	productCatalog := catalog.NewMemory(products...)
	logg.Info(logg.WithField(ctx, "products", len(products)), "catalog loaded")

	var deps []controllers.Dependency
	var idempotency *redis.Client
	if cfg.Redis.Enabled() {
		idempotency, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := idempotency.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		deps = append(deps, controllers.Dependency{Name: "redis", Pinger: idempotency})
	} else {
		logg.Warn(ctx, "redis not configured, checkout idempotency disabled")
	}

	var publisher *gcppubsub.Publisher
	if cfg.Checkout.ParsedMode() == enums.CheckoutModePubSub {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		publisher = psClient.CheckoutPublisher()
		deps = append(deps, controllers.Dependency{Name: "pubsub", Pinger: psClient})
	}

	transport, err := checkout.New(cfg.Checkout, publisher)
	if err != nil {
		return err
	}

	store, err := cart.NewStore(cart.StoreParams{
		Transport: transport,
		Logger:    logg,
		Metrics:   cartMetrics,
	})
	if err != nil {
		return err
	}
	unsubscribe := store.Subscribe(func(snap cart.Snapshot) {
		cartMetrics.SetContents(len(snap.Items), cart.NumItems(snap.State))
	})
	defer unsubscribe()

	params := routes.Params{
		Config: cfg,
		Logger: logg,
		Cart: cartcontrollers.Deps{
			Store:     store,
			Selectors: cart.NewSelectors(logg, cartMetrics),
			Catalog:   productCatalog,
		},
		Products:     productCatalog,
		Gatherer:     reg,
		Dependencies: deps,
	}
	if idempotency != nil {
		params.Idempotency = idempotency
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(params),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"checkout_mode": cfg.Checkout.ParsedMode().String(),
		"instance":      instance.ID(),
	})
	logg.Info(serverCtx, "starting cart api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(serverCtx, "shutting down cart api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func loadCatalog(cfg config.CatalogConfig) ([]catalog.Product, error) {
	if cfg.File == "" {
		return catalog.DefaultProducts(), nil
	}
	return catalog.LoadFile(cfg.File)
}
