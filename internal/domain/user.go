package domain

import "time"

type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is the moderation state set by admins. It is independent of
// IsVerified, which only tracks email ownership.
type UserStatus string

const (
	StatusVerified UserStatus = "verified"
	StatusBlocked  UserStatus = "blocked"
)

type User struct {
	ID           string     `db:"id" bson:"_id" json:"_id"`
	FullName     string     `db:"full_name" bson:"fullname" json:"fullname"`
	Email        string     `db:"email" bson:"email" json:"email"`
	PhoneNumber  string     `db:"phone_number" bson:"phone_number" json:"phoneNumber"`
	PasswordHash []byte     `db:"password_hash" bson:"password_hash" json:"-"`
	PasswordSalt []byte     `db:"password_salt" bson:"password_salt" json:"-"`
	Role         Role       `db:"role" bson:"role" json:"role"`
	IsVerified   bool       `db:"is_verified" bson:"is_verified" json:"isVerified"`
	Status       UserStatus `db:"status" bson:"status" json:"status"`
	ProfileID    *string    `db:"profile_id" bson:"profile_id,omitempty" json:"-"`
	CompanyID    *string    `db:"company_id" bson:"company_id,omitempty" json:"companyId,omitempty"`
	CreatedAt    time.Time  `db:"created_at" bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" bson:"updated_at" json:"updatedAt"`

	Profile *Profile `db:"-" bson:"-" json:"profile,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsBlocked() bool {
	return u != nil && u.Status == StatusBlocked
}
