// Package db selects the server's storage backend and hands out its
// repositories.
package db

import (
	"context"

	"github.com/dmitrijs2005/gophwallet/internal/server/refreshtokens"
	"github.com/dmitrijs2005/gophwallet/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Close() error
}

// NewRepositoryManager returns a Postgres manager for a non-empty dsn and an
// in-memory one otherwise.
func NewRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewInMemoryRepositoryManager(), nil
	}
	return NewPostgresRepositoryManager(ctx, dsn)
}
