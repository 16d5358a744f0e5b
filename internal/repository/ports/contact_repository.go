package ports

import (
	"context"

	"github.com/hirehub/hirehub-backend/internal/domain"
)

type ContactRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error)
	FindByID(ctx context.Context, id string) (*domain.ContactMessage, error)
	List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}
