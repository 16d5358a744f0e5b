package service

import (
	"context"
	"fmt"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/repository/ports"
	"github.com/hirehub/hirehub-backend/internal/util"
)

type NewUser struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        domain.Role
	ProfileID   *string
}

// CredentialStore owns user identity records and their password hashes.
type CredentialStore struct {
	users ports.UserRepository
}

func NewCredentialStore(users ports.UserRepository) *CredentialStore {
	return &CredentialStore{users: users}
}

func (s *CredentialStore) Create(ctx context.Context, in NewUser) (*domain.User, error) {
	hash, salt, err := util.DerivePassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Create(ctx, &domain.User{
		FullName:     in.FullName,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         in.Role,
		IsVerified:   false,
		Status:       domain.StatusVerified,
		ProfileID:    in.ProfileID,
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailAlreadyUsed
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

func (s *CredentialStore) VerifyPassword(user *domain.User, candidate string) bool {
	if user == nil {
		return false
	}
	return util.VerifyPassword(candidate, user.PasswordSalt, user.PasswordHash)
}

func (s *CredentialStore) SetVerified(ctx context.Context, user *domain.User) error {
	if err := s.users.SetVerified(ctx, user.ID); err != nil {
		return s.mutationErr("mark verified", err)
	}
	user.IsVerified = true
	return nil
}

func (s *CredentialStore) SetStatus(ctx context.Context, user *domain.User, status domain.UserStatus) error {
	if err := s.users.SetStatus(ctx, user.ID, status); err != nil {
		return s.mutationErr("set status", err)
	}
	user.Status = status
	return nil
}

// SetPassword re-hashes with a fresh salt.
func (s *CredentialStore) SetPassword(ctx context.Context, user *domain.User, newPassword string) error {
	hash, salt, err := util.DerivePassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, salt); err != nil {
		return s.mutationErr("update password", err)
	}
	user.PasswordHash, user.PasswordSalt = hash, salt
	return nil
}

func (s *CredentialStore) mutationErr(op string, err error) error {
	if isNotFound(err) {
		return ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
