package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/repository/ports"
)

const userColumns = `id, full_name, email, phone_number, password_hash, password_salt, role, is_verified, status, profile_id, company_id, created_at, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	id := user.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := `
        INSERT INTO user_account (id, full_name, email, phone_number, password_hash, password_salt, role, is_verified, status, profile_id, company_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query,
		id, user.FullName, user.Email, user.PhoneNumber, user.PasswordHash, user.PasswordSalt,
		user.Role, user.IsVerified, user.Status, user.ProfileID, user.CompanyID)
	var out domain.User
	if err := row.StructScan(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM user_account WHERE email = $1`, email); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM user_account WHERE id = $1`, id); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE user_account SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, id))
}

func (r *UserRepository) SetStatus(ctx context.Context, id string, status domain.UserStatus) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE user_account SET status = $2, updated_at = NOW() WHERE id = $1`, id, status))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash, passwordSalt []byte) error {
	const query = `
        UPDATE user_account
        SET password_hash = $2,
            password_salt = $3,
            updated_at = NOW()
        WHERE id = $1
    `
	return requireAffected(r.db.ExecContext(ctx, query, id, passwordHash, passwordSalt))
}

func (r *UserRepository) UpdateIdentity(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	query := `
        UPDATE user_account
        SET full_name = COALESCE($2, full_name),
            email = COALESCE($3, email),
            phone_number = COALESCE($4, phone_number),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, id, patch.FullName, patch.Email, patch.PhoneNumber)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]domain.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM user_account
        WHERE role = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	users := make([]domain.User, 0)
	if err := r.db.SelectContext(ctx, &users, query, role, limit, offset); err != nil {
		return nil, translate(err)
	}
	return users, nil
}
