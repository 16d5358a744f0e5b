package service

import (
	"errors"

	"github.com/hirehub/hirehub-backend/internal/repository/ports"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrOTPExpired         = errors.New("otp expired")
	ErrRoleMismatch       = errors.New("role does not match account")
	ErrNotificationFailed = errors.New("failed to deliver notification")
	ErrConfiguration      = errors.New("service is not configured")
	ErrContactNotFound    = errors.New("contact message not found")
)

func isNotFound(err error) bool {
	return errors.Is(err, ports.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, ports.ErrDuplicate)
}
