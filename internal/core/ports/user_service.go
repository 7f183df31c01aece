package ports

import (
	"context"

	"github.com/devlink/devlink-api/internal/core/domain"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UserService defines account registration and authentication use cases.
// Register and Login both return a signed token embedding the user id.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
