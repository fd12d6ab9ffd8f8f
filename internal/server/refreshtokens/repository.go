// Package refreshtokens stores the opaque refresh tokens the server hands
// out. Tokens are single use: Refresh deletes the presented token and
// issues a new one.
package refreshtokens

import (
	"context"
	"time"
)

type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Repository returns common.ErrorNotFound for unknown tokens.
type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	Get(ctx context.Context, token string) (*RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
}
