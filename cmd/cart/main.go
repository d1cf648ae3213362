package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"RocketShoes/internal/cart"
	"RocketShoes/internal/config"
	"RocketShoes/internal/notify"
	"RocketShoes/internal/storage"
	"RocketShoes/pkg/kit"
)

const service = "cart"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.LoadCart()
	if err != nil {
		return err
	}

	log, err := kit.NewLogger(service, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	store, closeStore, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		log.Error("open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
		return err
	}
	defer func() { _ = closeStore() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	api := cart.NewAPIClient(cfg.APIURL, cfg.APITimeout)
	feed := notify.NewFeed(cfg.NotificationBuffer)

	c, err := cart.New(ctx, cart.Deps{
		Stock:    api,
		Catalog:  api,
		Store:    store,
		Notifier: notify.Tee(feed, notify.Log{L: log}),
		Key:      cfg.StorageKey,
		Log:      log,
		Metrics:  cart.NewMetrics(reg),
	})
	if err != nil {
		return fmt.Errorf("build cart: %w", err)
	}
	log.Info("cart hydrated", zap.Int("items", c.Cart().Size()), zap.String("driver", cfg.StorageDriver))

	h, err := cart.NewHandler(&cart.Server{Cart: c, Feed: feed, Store: store, Log: log}, cart.HTTPDeps{
		RouterDeps: kit.RouterDeps{
			Log:          log,
			Service:      service,
			Registry:     reg,
			MetricsToken: cfg.MetricsToken,
		},
		APIURL: cfg.APIURL,
	})
	if err != nil {
		return fmt.Errorf("build handler: %w", err)
	}

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
		return err
	}
	return nil
}
