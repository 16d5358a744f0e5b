package domain

import "time"

type ContactMessage struct {
	ID        string    `db:"id" bson:"_id" json:"_id"`
	Name      string    `db:"name" bson:"name" json:"name"`
	Email     string    `db:"email" bson:"email" json:"email"`
	Message   string    `db:"message" bson:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" bson:"created_at" json:"createdAt"`
}
