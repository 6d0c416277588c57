// Package app wires configuration into the long-lived components shared by
// the CLI and the server.
package app

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"bike-config/api"
	"bike-config/core/catalog"
	"bike-config/core/engine"
	"bike-config/db/bikestore"
	"bike-config/db/catalogstore"
	"bike-config/internal/config"
	"bike-config/internal/logging"
	"bike-config/internal/metrics"
)

// Version is the application version
const Version = "1.0.0"

// App holds the wired components
type App struct {
	Config   *config.Config
	Catalog  catalog.Store
	Resolver *engine.Resolver
	Bikes    *bikestore.Store
	Metrics  *metrics.Recorder
	Logger   *zap.Logger

	closers []func() error
}

// New validates cfg and opens the configured stores
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, closeStore, err := catalogstore.Open(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()
	logger := logging.Named("app")

	return &App{
		Config:  cfg,
		Catalog: store,
		Resolver: engine.NewResolver(store,
			engine.WithLogger(logging.Named("engine")),
			engine.WithMetrics(recorder),
			engine.WithCurrency(cfg.Pricing.Currency),
		),
		Bikes:   bikestore.New(cfg.Bikes.Path, cfg.Bikes.BackupPath),
		Metrics: recorder,
		Logger:  logger,
		closers: []func() error{closeStore},
	}, nil
}

// Server builds the HTTP server over the app's components
func (a *App) Server() *api.Server {
	return api.NewServer(api.Config{
		Version:       Version,
		Resolver:      a.Resolver,
		Bikes:         a.Bikes,
		Metrics:       a.Metrics,
		Logger:        logging.Named("api"),
		AllowedOrigin: a.Config.Server.AllowedOrigin,
	})
}

// Close releases every opened store and flushes the logger
func (a *App) Close() error {
	var err error
	for _, c := range a.closers {
		err = multierr.Append(err, c())
	}
	logging.Sync()
	return err
}
