package domain

import "time"

type Profile struct {
	ID                 string    `db:"id" bson:"_id" json:"_id"`
	Bio                string    `db:"bio" bson:"bio" json:"bio"`
	Skills             []string  `db:"-" bson:"skills" json:"skills"`
	Resume             string    `db:"resume" bson:"resume" json:"resume"`
	ResumeOriginalName string    `db:"resume_original_name" bson:"resume_original_name" json:"resumeOriginalName"`
	ProfilePhoto       string    `db:"profile_photo" bson:"profile_photo" json:"profilePhoto"`
	CreatedAt          time.Time `db:"created_at" bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" bson:"updated_at" json:"updatedAt"`
}
