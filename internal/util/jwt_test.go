package util

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTManagerGenerateAndParse(t *testing.T) {
	manager := NewJWTManager("top-secret", 24*time.Hour)

	userID := uuid.NewString()
	token, expiresAt, err := manager.Generate(userID)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token to be non-empty")
	}
	if d := time.Until(expiresAt); d < 23*time.Hour || d > 24*time.Hour {
		t.Fatalf("expected expiry one day out, got %v", d)
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
}

func TestJWTManagerParseExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	manager.now = func() time.Time { return issued }
	token, _, err := manager.Generate(uuid.NewString())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	manager.now = time.Now

	if _, err := manager.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTManagerRejectsForeignSignature(t *testing.T) {
	token, _, err := NewJWTManager("one", time.Hour).Generate("user-1")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := NewJWTManager("two", time.Hour).Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := NewJWTManager("two", time.Hour).Parse("not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
}

func TestJWTManagerWithoutSecretFailsClosed(t *testing.T) {
	manager := NewJWTManager("", time.Hour)
	if manager.Ready() {
		t.Fatal("manager without secret must not be ready")
	}
	if _, _, err := manager.Generate("user-1"); !errors.Is(err, ErrSigningKeyMissing) {
		t.Fatalf("expected ErrSigningKeyMissing, got %v", err)
	}
	if _, err := manager.Parse("anything"); !errors.Is(err, ErrSigningKeyMissing) {
		t.Fatalf("expected ErrSigningKeyMissing, got %v", err)
	}
}
