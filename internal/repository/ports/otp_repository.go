package ports

import (
	"context"
	"time"

	"github.com/hirehub/hirehub-backend/internal/domain"
)

type OTPRepository interface {
	Create(ctx context.Context, email, code string, createdAt time.Time) (*domain.OTP, error)
	FindByEmailAndCode(ctx context.Context, email, code string) (*domain.OTP, error)
	// Delete must succeed when the record is already gone.
	Delete(ctx context.Context, id string) error
}
