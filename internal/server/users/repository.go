// Package users holds account storage and the account service behind the
// gRPC API.
package users

import (
	"context"
)

// Repository stores users. Lookups of unknown users return
// common.ErrorNotFound; Create of a taken email returns
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}
