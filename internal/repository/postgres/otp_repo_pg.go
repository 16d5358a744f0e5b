package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hirehub/hirehub-backend/internal/domain"
)

type OTPRepository struct {
	db *sqlx.DB
}

func NewOTPRepo(db *sqlx.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) Create(ctx context.Context, email, code string, createdAt time.Time) (*domain.OTP, error) {
	const query = `
        INSERT INTO otp_code (id, email, code, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, email, code, created_at
    `
	row := r.db.QueryRowxContext(ctx, query, uuid.NewString(), email, code, createdAt)
	var rec domain.OTP
	if err := row.StructScan(&rec); err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *OTPRepository) FindByEmailAndCode(ctx context.Context, email, code string) (*domain.OTP, error) {
	const query = `
        SELECT id, email, code, created_at
        FROM otp_code
        WHERE email = $1 AND code = $2
        ORDER BY created_at DESC
        LIMIT 1
    `
	var rec domain.OTP
	if err := r.db.GetContext(ctx, &rec, query, email, code); err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *OTPRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM otp_code WHERE id = $1`, id)
	return translate(err)
}
