// Package server wires the account backend together: configuration,
// storage, the users service and the gRPC endpoint.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/dmitrijs2005/gophwallet/internal/server/config"
	"github.com/dmitrijs2005/gophwallet/internal/server/shared/db"
	"github.com/dmitrijs2005/gophwallet/internal/server/users"

	gs "github.com/dmitrijs2005/gophwallet/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       db.RepositoryManager
	userService *users.Service
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	rm, err := db.NewRepositoryManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(rm.Users(), rm.RefreshTokens(), c, logger)

	return &App{config: c, logger: logger, repos: rm, userService: us}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(ctx, "close storage", "error", err)
		}
	}()

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
