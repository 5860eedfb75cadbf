package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/cadence/internal/services"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if path := shared.ResolveConfigPath("config.toml"); path != "" {
		if _, err := os.Stat(path); err == nil {
			if loadedConfig, err := shared.LoadConfig(path); err == nil {
				config = loadedConfig
			}
		}
	}
	if err := config.EnsureDatabasePath(); err != nil {
		logger.Warn("failed to resolve default database path", "error", err)
	}

	catalog := services.NewHTTPCatalog(config.Catalog, nil)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "cadence",
		Usage:    "Local-first music playback with an offline catalog cache",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
