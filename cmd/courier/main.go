package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/quickeats/courier-client/config"
	"github.com/quickeats/courier-client/internal/app"
	"github.com/quickeats/courier-client/pkg/logger"
)

var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
)

func main() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp()
		return
	}

	// Local overrides; absence of a .env file is fine.
	_ = godotenv.Load()

	ctx := context.Background()
	log := logger.InitLogger("courier-client", logger.LevelDebug)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		os.Exit(1)
	}

	config.PrintConfig(cfg)

	if logger.ValidateLogLevel(cfg.LogLevel) {
		log = logger.InitLogger("courier-client", cfg.LogLevel)
	}

	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
