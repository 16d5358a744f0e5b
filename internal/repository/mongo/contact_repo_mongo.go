package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/repository/ports"
)

type ContactRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewContactRepo(db *mongo.Database) *ContactRepository {
	return &ContactRepository{coll: db.Collection(collContacts), now: time.Now}
}

func (r *ContactRepository) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	doc := *msg
	doc.ID = uuid.NewString()
	doc.CreatedAt = r.now().UTC()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	var msg domain.ContactMessage
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}

func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, findOptions(limit, offset))
	if err != nil {
		return nil, translate(err)
	}
	out := make([]domain.ContactMessage, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}
