package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/skywatch/internal/logging"
	"github.com/dmitrijs2005/skywatch/internal/server"
	"github.com/dmitrijs2005/skywatch/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "err", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
