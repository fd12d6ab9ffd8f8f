package client

import (
	"context"

	"github.com/dmitrijs2005/gophwallet/internal/api"
)

// Client is the account-service API as the wallet client sees it. Calls that
// open a session also install the returned tokens on the client.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Register(ctx context.Context, email, password string) error
	VerifyEmail(ctx context.Context, email, code string) (*api.AuthResult, error)
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	LoginWithPasscode(ctx context.Context, email, passcode string) (*api.AuthResult, error)

	GetProfile(ctx context.Context) (*api.Profile, error)
	SetPasscode(ctx context.Context, passcode string) (*api.Profile, error)
	UpdateOnboarding(ctx context.Context, status string) (*api.Profile, error)

	// SetTokens primes the client, e.g. from a persisted session.
	// Empty strings clear the tokens.
	SetTokens(access, refresh string)
	// OnTokens registers a callback run after every token refresh.
	OnTokens(fn func(access, refresh string))
}
