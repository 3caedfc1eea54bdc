package interfaces

import (
	"context"

	auth_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/auth"
)

// UserRepository persists account records
type UserRepository interface {
	// Create persists a new account. Returns ErrDuplicateEmail if the
	// email is already registered.
	Create(ctx context.Context, user *auth_models.User) (*auth_models.User, error)

	// GetByEmail looks an account up by its login key. Returns
	// ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*auth_models.User, error)

	// GetByID looks an account up by identifier. Returns ErrNotFound
	// if absent.
	GetByID(ctx context.Context, userID string) (*auth_models.User, error)
}
