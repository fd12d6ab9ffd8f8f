package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/dmitrijs2005/gophwallet/internal/server"
	"github.com/dmitrijs2005/gophwallet/internal/server/config"
)

func main() {
	ctx := context.Background()

	logger, err := logging.New(os.Stdout, logging.FormatJSON, "info")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		logger.Error(ctx, "config error", "error", err)
		os.Exit(2)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "init error", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
