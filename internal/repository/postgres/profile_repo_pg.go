package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hirehub/hirehub-backend/internal/domain"
)

const profileColumns = `id, bio, skills, resume, resume_original_name, profile_photo, created_at, updated_at`

// profileRow mirrors domain.Profile with skills as a postgres text array.
type profileRow struct {
	ID                 string         `db:"id"`
	Bio                string         `db:"bio"`
	Skills             pq.StringArray `db:"skills"`
	Resume             string         `db:"resume"`
	ResumeOriginalName string         `db:"resume_original_name"`
	ProfilePhoto       string         `db:"profile_photo"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func (p profileRow) toDomain() *domain.Profile {
	skills := []string(p.Skills)
	if skills == nil {
		skills = []string{}
	}
	return &domain.Profile{
		ID:                 p.ID,
		Bio:                p.Bio,
		Skills:             skills,
		Resume:             p.Resume,
		ResumeOriginalName: p.ResumeOriginalName,
		ProfilePhoto:       p.ProfilePhoto,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepo(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	id := profile.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := `
        INSERT INTO profile (id, bio, skills, resume, resume_original_name, profile_photo)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + profileColumns
	var row profileRow
	err := r.db.QueryRowxContext(ctx, query, id, profile.Bio, pq.Array(nonNil(profile.Skills)),
		profile.Resume, profile.ResumeOriginalName, profile.ProfilePhoto).StructScan(&row)
	if err != nil {
		return nil, translate(err)
	}
	return row.toDomain(), nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	var row profileRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+profileColumns+` FROM profile WHERE id = $1`, id); err != nil {
		return nil, translate(err)
	}
	return row.toDomain(), nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	query := `
        UPDATE profile
        SET bio = $2,
            skills = $3,
            resume = $4,
            resume_original_name = $5,
            profile_photo = $6,
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + profileColumns
	var row profileRow
	err := r.db.QueryRowxContext(ctx, query, profile.ID, profile.Bio, pq.Array(nonNil(profile.Skills)),
		profile.Resume, profile.ResumeOriginalName, profile.ProfilePhoto).StructScan(&row)
	if err != nil {
		return nil, translate(err)
	}
	return row.toDomain(), nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM profile WHERE id = $1`, id))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
