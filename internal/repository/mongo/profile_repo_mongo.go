package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/repository/ports"
)

type ProfileRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewProfileRepo(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(collProfiles), now: time.Now}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	doc := *profile
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Skills == nil {
		doc.Skills = []string{}
	}
	now := r.now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&profile); err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	skills := profile.Skills
	if skills == nil {
		skills = []string{}
	}
	update := bson.M{"$set": bson.M{
		"bio":                  profile.Bio,
		"skills":               skills,
		"resume":               profile.Resume,
		"resume_original_name": profile.ResumeOriginalName,
		"profile_photo":        profile.ProfilePhoto,
		"updated_at":           r.now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out domain.Profile
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": profile.ID}, update, opts).Decode(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}
