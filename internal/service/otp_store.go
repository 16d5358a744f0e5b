package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/repository/ports"
	"github.com/hirehub/hirehub-backend/internal/util"
)

// OTPValidity is how long an issued code stays usable. The mail templates
// quote it in minutes.
const OTPValidity = 10 * time.Minute

// OTPStore issues and looks up one-time codes. It never sends anything; the
// caller forwards the issued code to a notifier.
type OTPStore struct {
	repo     ports.OTPRepository
	ttl      time.Duration
	now      func() time.Time
	generate func() (string, error)
}

func NewOTPStore(repo ports.OTPRepository) *OTPStore {
	return &OTPStore{repo: repo, ttl: OTPValidity, now: time.Now, generate: util.GenerateNumericOTP}
}

func (s *OTPStore) Issue(ctx context.Context, email string) (*domain.OTP, error) {
	code, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	rec, err := s.repo.Create(ctx, email, code, s.now())
	if err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}
	return rec, nil
}

func (s *OTPStore) Find(ctx context.Context, email, code string) (*domain.OTP, error) {
	rec, err := s.repo.FindByEmailAndCode(ctx, email, code)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("find otp: %w", err)
	}
	return rec, nil
}

func (s *OTPStore) Consume(ctx context.Context, rec *domain.OTP) error {
	if err := s.repo.Delete(ctx, rec.ID); err != nil && !isNotFound(err) {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// Expired reports whether more than the ttl has elapsed since issuance. A
// record exactly ttl old is still valid.
func (s *OTPStore) Expired(rec *domain.OTP) bool {
	return s.now().Sub(rec.CreatedAt) > s.ttl
}

// Check finds a matching record and enforces freshness. A stale record is
// deleted before ErrOTPExpired is returned, so retrying yields ErrInvalidOTP.
func (s *OTPStore) Check(ctx context.Context, email, code string) (*domain.OTP, error) {
	rec, err := s.Find(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if s.Expired(rec) {
		if err := s.Consume(ctx, rec); err != nil {
			return nil, err
		}
		return nil, ErrOTPExpired
	}
	return rec, nil
}
