package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hirehub/hirehub-backend/internal/domain"
)

type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepo(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	const query = `
        INSERT INTO contact_message (id, name, email, message)
        VALUES ($1, $2, $3, $4)
        RETURNING id, name, email, message, created_at
    `
	var out domain.ContactMessage
	if err := r.db.QueryRowxContext(ctx, query, uuid.NewString(), msg.Name, msg.Email, msg.Message).StructScan(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	var out domain.ContactMessage
	if err := r.db.GetContext(ctx, &out, `SELECT id, name, email, message, created_at FROM contact_message WHERE id = $1`, id); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	const query = `
        SELECT id, name, email, message, created_at
        FROM contact_message
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	out := make([]domain.ContactMessage, 0)
	if err := r.db.SelectContext(ctx, &out, query, limit, offset); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM contact_message WHERE id = $1`, id))
}
