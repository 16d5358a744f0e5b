package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hirehub/hirehub-backend/internal/domain"
)

type OTPRepository struct {
	coll *mongo.Collection
}

func NewOTPRepo(db *mongo.Database) *OTPRepository {
	return &OTPRepository{coll: db.Collection(collOTPs)}
}

func (r *OTPRepository) Create(ctx context.Context, email, code string, createdAt time.Time) (*domain.OTP, error) {
	rec := domain.OTP{ID: uuid.NewString(), Email: email, Code: code, CreatedAt: createdAt.UTC()}
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *OTPRepository) FindByEmailAndCode(ctx context.Context, email, code string) (*domain.OTP, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var rec domain.OTP
	if err := r.coll.FindOne(ctx, bson.M{"email": email, "code": code}, opts).Decode(&rec); err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *OTPRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return translate(err)
}
