package ports

import (
	"context"

	"github.com/Apurer/go-gin-marketplace/internal/domains/users/domain"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Service exposes the identity provider to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.Session, *domain.User, error)
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a session token into the caller identity.
	Authenticate(ctx context.Context, token string) (identity.Identity, error)
}
