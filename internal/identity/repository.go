package identity

import (
	"context"

	"github.com/campus-sentry/campus-sentry/internal/domain"
)

// Repository defines the interface for user record operations.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}
