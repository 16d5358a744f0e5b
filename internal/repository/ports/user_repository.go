package ports

import (
	"context"

	"github.com/hirehub/hirehub-backend/internal/domain"
)

// UserPatch carries optional identity changes; nil fields are left untouched.
type UserPatch struct {
	FullName    *string
	Email       *string
	PhoneNumber *string
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	SetVerified(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status domain.UserStatus) error
	UpdatePassword(ctx context.Context, id string, passwordHash, passwordSalt []byte) error
	UpdateIdentity(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]domain.User, error)
}
