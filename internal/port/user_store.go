package port

import (
	"context"

	"github.com/iliyamo/railway-booking/internal/model"
)

type UserStore interface {
	// ExistsByUsernameOrEmail reports whether either identifier is taken
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// CreateUser inserts a user and returns its generated ID
	CreateUser(ctx context.Context, u model.User) (uint64, error)

	// GetUserByUsername returns repository.ErrNotFound when no user matches
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}
