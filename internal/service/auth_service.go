package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/logging"
	"github.com/hirehub/hirehub-backend/internal/media"
	"github.com/hirehub/hirehub-backend/internal/metrics"
	"github.com/hirehub/hirehub-backend/internal/repository/ports"
	"github.com/hirehub/hirehub-backend/internal/util"
)

// OTPSender delivers a code by email.
type OTPSender interface {
	SendOTP(ctx context.Context, email, code string, purpose domain.OTPPurpose) error
}

type AuthServiceConfig struct {
	ProfileBucket    string
	GoogleAudience   string
	AllowAdminSignup bool
}

type RegisterInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
	Photo       *media.Upload
}

type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	creds     *CredentialStore
	profiles  ports.ProfileRepository
	otps      *OTPStore
	storage   ports.ObjectStorage
	inspector *media.Inspector
	notifier  OTPSender
	tokens    *util.JWTManager
	cfg       AuthServiceConfig
	metrics   *metrics.Metrics
	logger    *zap.Logger

	validateGoogle func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

func NewAuthService(
	creds *CredentialStore,
	profiles ports.ProfileRepository,
	otps *OTPStore,
	storage ports.ObjectStorage,
	inspector *media.Inspector,
	notifier OTPSender,
	tokens *util.JWTManager,
	cfg AuthServiceConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *AuthService {
	if inspector == nil {
		inspector = media.NewInspector(0, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		creds:          creds,
		profiles:       profiles,
		otps:           otps,
		storage:        storage,
		inspector:      inspector,
		notifier:       notifier,
		tokens:         tokens,
		cfg:            cfg,
		metrics:        m,
		logger:         logger,
		validateGoogle: idtoken.Validate,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Role = strings.TrimSpace(in.Role)
	if in.FullName == "" || in.Email == "" || in.PhoneNumber == "" || in.Password == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: fullname, email, phoneNumber, password and role are required", ErrValidation)
	}
	if in.Photo == nil || in.Photo.Reader == nil {
		return nil, fmt.Errorf("%w: profile photo is required", ErrValidation)
	}
	role := domain.Role(in.Role)
	if !s.signupAllowed(role) {
		return nil, fmt.Errorf("%w: role %q is not allowed", ErrValidation, in.Role)
	}

	if _, err := s.creds.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailAlreadyUsed
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	photo, err := s.inspector.Image(*in.Photo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	objectName := fmt.Sprintf("profiles/%s%s", uuid.NewString(), photo.Ext)
	photoURL, err := s.storage.Upload(ctx, s.cfg.ProfileBucket, objectName, photo.ContentType, photo.Reader(), photo.Size())
	if err != nil {
		return nil, storageErr("upload profile photo", err)
	}

	profile, err := s.profiles.Create(ctx, &domain.Profile{ProfilePhoto: photoURL, Skills: []string{}})
	if err != nil {
		s.discardObject(ctx, s.cfg.ProfileBucket, objectName)
		return nil, fmt.Errorf("create profile: %w", err)
	}

	user, err := s.creds.Create(ctx, NewUser{
		FullName:    in.FullName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    in.Password,
		Role:        role,
		ProfileID:   &profile.ID,
	})
	if err != nil {
		if delErr := s.profiles.Delete(ctx, profile.ID); delErr != nil && !isNotFound(delErr) {
			logging.FromContext(ctx, s.logger).Error("remove orphaned profile",
				zap.String("profile_id", profile.ID), zap.Error(delErr))
		}
		s.discardObject(ctx, s.cfg.ProfileBucket, objectName)
		return nil, err
	}
	user.Profile = profile
	logging.FromContext(ctx, s.logger).Info("user registered",
		zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *AuthService) signupAllowed(role domain.Role) bool {
	switch role {
	case domain.RoleStudent, domain.RoleRecruiter:
		return true
	case domain.RoleAdmin:
		return s.cfg.AllowAdminSignup
	}
	return false
}

// Login answers an unknown email and a wrong password identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (result *AuthResult, err error) {
	defer func() { s.metrics.Login("password", err) }()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	user, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.creds.VerifyPassword(user, password) {
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked() {
		return nil, ErrAccountBlocked
	}
	return s.issueSession(ctx, user)
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (result *AuthResult, err error) {
	defer func() { s.metrics.Login("google", err) }()

	if s.cfg.GoogleAudience == "" {
		return nil, fmt.Errorf("%w: google sign-in is disabled", ErrConfiguration)
	}
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, fmt.Errorf("%w: id_token is required", ErrValidation)
	}
	payload, err := s.validateGoogle(ctx, idToken, s.cfg.GoogleAudience)
	if err != nil {
		logging.FromContext(ctx, s.logger).Warn("google token rejected", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	email, _ := payload.Claims["email"].(string)
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, ErrInvalidCredentials
	}
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.IsBlocked() {
		return nil, ErrAccountBlocked
	}
	return s.issueSession(ctx, user)
}

// Authenticate resolves a session token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, util.ErrSigningKeyMissing) {
			return nil, ErrConfiguration
		}
		return nil, ErrUnauthenticated
	}
	user, err := s.creds.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if user.IsBlocked() {
		return nil, ErrAccountBlocked
	}
	return user, nil
}

func (s *AuthService) SendOTP(ctx context.Context, email, role string) error {
	email = strings.TrimSpace(email)
	role = strings.TrimSpace(role)
	if email == "" || role == "" {
		return fmt.Errorf("%w: email and role are required", ErrValidation)
	}
	user, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if string(user.Role) != role {
		return ErrRoleMismatch
	}
	return s.issueAndSend(ctx, user.Email, domain.OTPPurposeVerification)
}

// VerifyOTP checks the code, marks the account verified and starts a session.
// The token is minted before any write so a missing signing secret changes
// nothing. The code is consumed before the account is marked verified, so a
// failed delete leaves both untouched and the code can be retried.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email and otp are required", ErrValidation)
	}
	if !s.tokens.Ready() {
		return nil, ErrConfiguration
	}
	rec, err := s.checkOTP(ctx, email, code)
	if err != nil {
		return nil, err
	}
	user, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, tokenErr(err)
	}
	if err := s.otps.Consume(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.creds.SetVerified(ctx, user); err != nil {
		return nil, err
	}
	s.attachProfile(ctx, user)
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// ResendOTP issues an additional code. Older codes stay valid.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	user, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.issueAndSend(ctx, user.Email, domain.OTPPurposeResend)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	user, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.issueAndSend(ctx, user.Email, domain.OTPPurposePasswordReset)
}

// VerifyResetOTP validates a reset code without consuming it; ResetPassword
// checks it again and consumes it.
func (s *AuthService) VerifyResetOTP(ctx context.Context, email, code string) error {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and otp are required", ErrValidation)
	}
	_, err := s.checkOTP(ctx, email, code)
	return err
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" || newPassword == "" {
		return fmt.Errorf("%w: email, otp and newPassword are required", ErrValidation)
	}
	rec, err := s.checkOTP(ctx, email, code)
	if err != nil {
		return err
	}
	user, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.creds.SetPassword(ctx, user, newPassword); err != nil {
		return err
	}
	if err := s.otps.Consume(ctx, rec); err != nil {
		return err
	}
	logging.FromContext(ctx, s.logger).Info("password reset", zap.String("user_id", user.ID))
	return nil
}

func (s *AuthService) checkOTP(ctx context.Context, email, code string) (*domain.OTP, error) {
	rec, err := s.otps.Check(ctx, email, code)
	switch {
	case err == nil:
		s.metrics.OTPChecked("ok")
	case errors.Is(err, ErrOTPExpired):
		s.metrics.OTPChecked("expired")
	case errors.Is(err, ErrInvalidOTP):
		s.metrics.OTPChecked("invalid")
	}
	return rec, err
}

// issueAndSend stores a fresh code and mails it. A failed delivery leaves the
// stored code in place.
func (s *AuthService) issueAndSend(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	rec, err := s.otps.Issue(ctx, email)
	if err != nil {
		return err
	}
	s.metrics.OTPIssued(string(purpose))

	err = s.notifier.SendOTP(ctx, email, rec.Code, purpose)
	s.metrics.EmailSent("otp", err)
	if err != nil {
		logging.FromContext(ctx, s.logger).Error("otp delivery failed",
			zap.String("purpose", string(purpose)), zap.Error(err))
		if errors.Is(err, ports.ErrNotConfigured) {
			return fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return nil
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, tokenErr(err)
	}
	s.attachProfile(ctx, user)
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// attachProfile populates user.Profile. A missing profile is logged, not
// fatal.
func (s *AuthService) attachProfile(ctx context.Context, user *domain.User) {
	if user.ProfileID == nil || *user.ProfileID == "" {
		return
	}
	profile, err := s.profiles.FindByID(ctx, *user.ProfileID)
	if err != nil {
		logging.FromContext(ctx, s.logger).Warn("load profile",
			zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	user.Profile = profile
}

func (s *AuthService) discardObject(ctx context.Context, bucket, objectName string) {
	if err := s.storage.Remove(ctx, bucket, objectName); err != nil {
		logging.FromContext(ctx, s.logger).Warn("remove uploaded object",
			zap.String("object", objectName), zap.Error(err))
	}
}

func tokenErr(err error) error {
	if errors.Is(err, util.ErrSigningKeyMissing) {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return fmt.Errorf("sign token: %w", err)
}

func storageErr(op string, err error) error {
	if errors.Is(err, ports.ErrNotConfigured) {
		return fmt.Errorf("%w: %s: %v", ErrConfiguration, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
