package main

import (
	"context"
	"os"

	"github.com/desertthunder/cine/internal/catalog"
	"github.com/desertthunder/cine/internal/repositories"
	"github.com/desertthunder/cine/internal/services"
	"github.com/desertthunder/cine/internal/session"
	"github.com/desertthunder/cine/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	client := services.NewClient(config, nil, logger)

	var store *session.Store
	var cache catalog.VideoCache
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err == nil {
			store = session.NewStore(client, repositories.NewSessionRepository(db), logger)
			cache = repositories.NewVideoRepository(db)
		} else {
			logger.Warnf("database migrations failed, continuing without local storage: %v", err)
		}
	} else {
		logger.Debugf("local database unavailable: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Videos:  client,
		Account: client,
		Prober:  client,
		Store:   store,
		Cache:   cache,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "cine",
		Usage:    "Browse, search & play videos from a Cinephile server",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
