package http

import (
	"time"

	"github.com/hirehub/hirehub-backend/internal/domain"
)

// LoginRequest carries email login fields.
type LoginRequest struct {
	Email    string `json:"email" form:"email" example:"user@example.com"`
	Password string `json:"password" form:"password" example:"StrongPass!23"`
}

// GoogleLoginRequest carries the Google ID token for login.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" form:"id_token"`
}

type SendOTPRequest struct {
	Email string `json:"email" form:"email" example:"user@example.com"`
	Role  string `json:"role" form:"role" example:"student"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" form:"email" example:"user@example.com"`
	OTP   string `json:"otp" form:"otp" example:"123456"`
}

// EmailRequest is shared by resend-otp and forgot-password.
type EmailRequest struct {
	Email string `json:"email" form:"email" example:"user@example.com"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" form:"email" example:"user@example.com"`
	OTP         string `json:"otp" form:"otp" example:"123456"`
	NewPassword string `json:"newPassword" form:"newPassword" example:"NewPass!45"`
}

type ContactSubmitRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

type ContactReplyRequest struct {
	MessageID string `json:"messageId" form:"messageId"`
	Email     string `json:"email" form:"email"`
	Reply     string `json:"reply" form:"reply"`
}

// AuthResponse is returned by endpoints that start a session.
type AuthResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// PageMeta describes pagination for admin listings.
type PageMeta struct {
	Limit  int `json:"limit" example:"50"`
	Offset int `json:"offset" example:"0"`
	Count  int `json:"count" example:"2"`
}
