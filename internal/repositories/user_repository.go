package repositories

import (
	"context"
	"errors"

	"inventory/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ErrUserNotFound is returned by UserRepository lookups that match no user.
var ErrUserNotFound = errors.New("user not found")
