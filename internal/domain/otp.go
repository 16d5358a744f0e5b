package domain

import "time"

// OTP is a one-time code bound to an email address. More than one record may
// exist for the same email; lookups always match on email and code together.
type OTP struct {
	ID        string    `db:"id" bson:"_id" json:"id"`
	Email     string    `db:"email" bson:"email" json:"email"`
	Code      string    `db:"code" bson:"code" json:"-"`
	CreatedAt time.Time `db:"created_at" bson:"created_at" json:"created_at"`
}

// OTPPurpose selects the email template used when a code is delivered. It is
// not persisted with the record.
type OTPPurpose string

const (
	OTPPurposeVerification  OTPPurpose = "verification"
	OTPPurposeResend        OTPPurpose = "resend"
	OTPPurposePasswordReset OTPPurpose = "password_reset"
)
