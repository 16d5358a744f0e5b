package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/repository/memory"
)

func TestCredentialStore(t *testing.T) {
	ctx := context.Background()
	creds := NewCredentialStore(memory.NewStore().Users())

	user, err := creds.Create(ctx, NewUser{FullName: "A", Email: "a@x.io", PhoneNumber: "1", Password: "secret", Role: domain.RoleStudent})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !creds.VerifyPassword(user, "secret") || creds.VerifyPassword(user, "Secret") {
		t.Fatal("password verification mismatch")
	}
	if creds.VerifyPassword(nil, "secret") {
		t.Fatal("nil user must never verify")
	}

	if _, err := creds.Create(ctx, NewUser{Email: "a@x.io", Password: "x", Role: domain.RoleStudent}); !errors.Is(err, ErrEmailAlreadyUsed) {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}
	if _, err := creds.FindByEmail(ctx, "missing@x.io"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := creds.FindByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	oldSalt := append([]byte(nil), user.PasswordSalt...)
	if err := creds.SetPassword(ctx, user, "secret"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if string(oldSalt) == string(user.PasswordSalt) {
		t.Fatal("same password must still get a fresh salt")
	}
	reloaded, _ := creds.FindByID(ctx, user.ID)
	if !creds.VerifyPassword(reloaded, "secret") {
		t.Fatal("reloaded user should verify with the new hash")
	}

	if err := creds.SetVerified(ctx, reloaded); err != nil || !reloaded.IsVerified {
		t.Fatalf("set verified: %v", err)
	}
	if err := creds.SetStatus(ctx, reloaded, domain.StatusBlocked); err != nil || !reloaded.IsBlocked() {
		t.Fatalf("set status: %v", err)
	}
	ghost := &domain.User{ID: "ghost"}
	if err := creds.SetVerified(ctx, ghost); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
