// Command rolesim serves a demo shell around the role simulator: a JSON API
// to switch the simulated role, guarded pages, and an API proxy whose calls
// go through the simulating transport.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrymomot/rolesim/pkg/config"
	"github.com/dmitrymomot/rolesim/pkg/httpserver"
	"github.com/dmitrymomot/rolesim/pkg/logger"
	"github.com/dmitrymomot/rolesim/pkg/requestid"
)

func main() {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		slog.Error("load config", logger.Error(err))
		os.Exit(1)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithContextExtractors(requestid.LoggerExtractor(), logger.RoleExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("rolesim stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	router, err := a.router()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.watchChanges(ctx)

	log.Info("rolesim starting",
		slog.String("storage", cfg.StorageDriver),
		logger.RoleID(a.store.State().RoleID()),
	)

	return httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, router)
}
