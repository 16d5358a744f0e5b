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

type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepo(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(collUsers), now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := *user
	doc.Profile = nil
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := r.now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	return r.set(ctx, id, bson.M{"is_verified": true})
}

func (r *UserRepository) SetStatus(ctx context.Context, id string, status domain.UserStatus) error {
	return r.set(ctx, id, bson.M{"status": status})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash, passwordSalt []byte) error {
	return r.set(ctx, id, bson.M{"password_hash": passwordHash, "password_salt": passwordSalt})
}

func (r *UserRepository) set(ctx context.Context, id string, fields bson.M) error {
	fields["updated_at"] = r.now().UTC()
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateIdentity(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	fields := bson.M{"updated_at": r.now().UTC()}
	if patch.FullName != nil {
		fields["fullname"] = *patch.FullName
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}
	if patch.PhoneNumber != nil {
		fields["phone_number"] = *patch.PhoneNumber
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user domain.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{"role": role}, findOptions(limit, offset))
	if err != nil {
		return nil, translate(err)
	}
	users := make([]domain.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
