package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"RocketShoes/internal/catalog"
	"RocketShoes/internal/config"
	"RocketShoes/pkg/kit"
)

const service = "api"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.LoadAPI()
	if err != nil {
		return err
	}

	log, err := kit.NewLogger(service, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, closeStore, err := openStore(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Error("open catalog store", zap.Error(err))
		return err
	}
	defer func() { _ = closeStore() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := catalog.NewHandler(&catalog.Server{Store: store, Log: log}, kit.RouterDeps{
		Log:          log,
		Service:      service,
		Registry:     reg,
		MetricsToken: cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
		return err
	}
	return nil
}

func openStore(ctx context.Context, databaseURL string) (catalog.Store, func() error, error) {
	if databaseURL == "" {
		return catalog.NewMemStore(), func() error { return nil }, nil
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}

	s := catalog.NewPostgresStore(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return s, db.Close, nil
}
