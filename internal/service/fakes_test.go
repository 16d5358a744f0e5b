package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/media"
	"github.com/hirehub/hirehub-backend/internal/repository/memory"
	"github.com/hirehub/hirehub-backend/internal/repository/ports"
	"github.com/hirehub/hirehub-backend/internal/util"
)

type storedObject struct {
	bucket      string
	objectName  string
	contentType string
	size        int64
}

type fakeStorage struct {
	uploads []storedObject
	removed []string
	err     error
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, _ := io.ReadAll(reader)
	f.uploads = append(f.uploads, storedObject{bucket: bucket, objectName: objectName, contentType: contentType, size: int64(len(data))})
	return "https://storage/" + bucket + "/" + objectName, nil
}

func (f *fakeStorage) Remove(ctx context.Context, bucket, objectName string) error {
	f.removed = append(f.removed, objectName)
	return nil
}

type sentOTP struct {
	email   string
	code    string
	purpose domain.OTPPurpose
}

type fakeNotifier struct {
	mu      sync.Mutex
	otps    []sentOTP
	replies []string
	err     error
}

func (f *fakeNotifier) SendOTP(ctx context.Context, email, code string, purpose domain.OTPPurpose) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otps = append(f.otps, sentOTP{email: email, code: code, purpose: purpose})
	return f.err
}

func (f *fakeNotifier) SendContactReply(ctx context.Context, email, name, reply string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, email+"|"+name+"|"+reply)
	return f.err
}

func (f *fakeNotifier) lastCode(t *testing.T) string {
	t.Helper()
	if len(f.otps) == 0 {
		t.Fatal("expected an otp to have been sent")
	}
	return f.otps[len(f.otps)-1].code
}

// failingUserRepo fails Create after the duplicate check has passed.
type failingUserRepo struct {
	ports.UserRepository
	createErr error
}

func (f *failingUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return nil, f.createErr
}

type failingProfileRepo struct {
	ports.ProfileRepository
	updateErr error
}

func (f *failingProfileRepo) Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	return nil, f.updateErr
}

type failingOTPRepo struct {
	ports.OTPRepository
	deleteErr error
}

func (f *failingOTPRepo) Delete(ctx context.Context, id string) error {
	return f.deleteErr
}

type authFixture struct {
	store    *memory.Store
	otps     *OTPStore
	storage  *fakeStorage
	notifier *fakeNotifier
	tokens   *util.JWTManager
	svc      *AuthService
	now      time.Time
}

// newAuthFixture wires the service over an in-memory store. wrap, when set,
// decorates the user repository.
func newAuthFixture(t *testing.T, wrap func(ports.UserRepository) ports.UserRepository, cfg AuthServiceConfig) *authFixture {
	t.Helper()
	store := memory.NewStore()
	var users ports.UserRepository = store.Users()
	if wrap != nil {
		users = wrap(users)
	}
	f := &authFixture{
		store:    store,
		storage:  &fakeStorage{},
		notifier: &fakeNotifier{},
		tokens:   util.NewJWTManager("test-secret", 24*time.Hour),
		now:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	f.otps = NewOTPStore(store.OTPs())
	f.otps.now = func() time.Time { return f.now }
	if cfg.ProfileBucket == "" {
		cfg.ProfileBucket = "profiles"
	}
	f.svc = NewAuthService(NewCredentialStore(users), store.Profiles(), f.otps, f.storage,
		media.NewInspector(0, 0), f.notifier, f.tokens, cfg, nil, nil)
	return f
}

func pngUpload(t *testing.T) *media.Upload {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &media.Upload{Reader: bytes.NewReader(buf.Bytes()), Size: int64(buf.Len()), FileName: "me.png", ContentType: "image/png"}
}

func (f *authFixture) register(t *testing.T, email, password string, role domain.Role) *domain.User {
	t.Helper()
	user, err := f.svc.Register(context.Background(), RegisterInput{
		FullName:    "Test User",
		Email:       email,
		PhoneNumber: "5550100",
		Password:    password,
		Role:        string(role),
		Photo:       pngUpload(t),
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

func expectErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}
