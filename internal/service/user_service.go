package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/logging"
	"github.com/hirehub/hirehub-backend/internal/media"
	"github.com/hirehub/hirehub-backend/internal/repository/ports"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// UpdateProfileInput carries optional changes; nil or blank fields are left
// untouched. Skills is a comma separated list.
type UpdateProfileInput struct {
	FullName    *string
	Email       *string
	PhoneNumber *string
	Bio         *string
	Skills      *string
	Resume      *media.Upload
}

type UserService struct {
	users        ports.UserRepository
	creds        *CredentialStore
	profiles     ports.ProfileRepository
	storage      ports.ObjectStorage
	inspector    *media.Inspector
	resumeBucket string
	logger       *zap.Logger
}

func NewUserService(users ports.UserRepository, profiles ports.ProfileRepository, storage ports.ObjectStorage, inspector *media.Inspector, resumeBucket string, logger *zap.Logger) *UserService {
	if inspector == nil {
		inspector = media.NewInspector(0, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:        users,
		creds:        NewCredentialStore(users),
		profiles:     profiles,
		storage:      storage,
		inspector:    inspector,
		resumeBucket: resumeBucket,
		logger:       logger,
	}
}

// Get returns the user with its profile populated.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.creds.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile validates the resume before anything is written. The profile
// is saved before the identity fields; if the identity write fails the old
// profile is put back and the new resume object removed.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error) {
	user, err := s.creds.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch := ports.UserPatch{
		FullName:    nonBlank(in.FullName),
		Email:       nonBlank(in.Email),
		PhoneNumber: nonBlank(in.PhoneNumber),
	}
	var resume *media.Result
	if in.Resume != nil && in.Resume.Reader != nil {
		if resume, err = s.inspector.Document(*in.Resume); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	var previous *domain.Profile
	var resumeObject string
	if in.Bio != nil || in.Skills != nil || resume != nil {
		if user.ProfileID == nil {
			return nil, fmt.Errorf("user %s has no profile", user.ID)
		}
		profile, err := s.profiles.FindByID(ctx, *user.ProfileID)
		if err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		old := *profile
		previous = &old

		if in.Bio != nil {
			profile.Bio = strings.TrimSpace(*in.Bio)
		}
		if in.Skills != nil {
			profile.Skills = SplitSkills(*in.Skills)
		}
		if resume != nil {
			resumeObject = fmt.Sprintf("resumes/%s/%s%s", user.ID, uuid.NewString(), resume.Ext)
			url, err := s.storage.Upload(ctx, s.resumeBucket, resumeObject, resume.ContentType, resume.Reader(), resume.Size())
			if err != nil {
				return nil, storageErr("upload resume", err)
			}
			profile.Resume = url
			profile.ResumeOriginalName = in.Resume.FileName
		}
		if user.Profile, err = s.profiles.Update(ctx, profile); err != nil {
			s.discardObject(ctx, resumeObject)
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}

	if patch.FullName != nil || patch.Email != nil || patch.PhoneNumber != nil {
		updated, err := s.users.UpdateIdentity(ctx, userID, patch)
		if err != nil {
			s.restoreProfile(ctx, previous, resumeObject)
			switch {
			case isDuplicate(err):
				return nil, ErrEmailAlreadyUsed
			case isNotFound(err):
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("update user: %w", err)
		}
		updated.Profile = user.Profile
		user = updated
	}

	if user.Profile == nil {
		if err := s.loadProfile(ctx, user); err != nil {
			return nil, err
		}
	}
	logging.FromContext(ctx, s.logger).Info("profile updated", zap.String("user_id", user.ID))
	return user, nil
}

func (s *UserService) restoreProfile(ctx context.Context, previous *domain.Profile, resumeObject string) {
	if previous == nil {
		return
	}
	if _, err := s.profiles.Update(ctx, previous); err != nil {
		logging.FromContext(ctx, s.logger).Warn("restore profile",
			zap.String("profile_id", previous.ID), zap.Error(err))
		return
	}
	s.discardObject(ctx, resumeObject)
}

func (s *UserService) discardObject(ctx context.Context, objectName string) {
	if objectName == "" {
		return
	}
	if err := s.storage.Remove(ctx, s.resumeBucket, objectName); err != nil {
		logging.FromContext(ctx, s.logger).Warn("remove uploaded object",
			zap.String("object", objectName), zap.Error(err))
	}
}

func (s *UserService) ListStudents(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.listByRole(ctx, domain.RoleStudent, limit, offset)
}

func (s *UserService) ListRecruiters(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.listByRole(ctx, domain.RoleRecruiter, limit, offset)
}

func (s *UserService) listByRole(ctx context.Context, role domain.Role, limit, offset int) ([]domain.User, error) {
	limit, offset = NormalizePage(limit, offset)
	users, err := s.users.ListByRole(ctx, role, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", role, err)
	}
	for i := range users {
		if err := s.loadProfile(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// ToggleStatus flips an account between verified and blocked.
func (s *UserService) ToggleStatus(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.creds.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	next := domain.StatusBlocked
	if user.IsBlocked() {
		next = domain.StatusVerified
	}
	if err := s.creds.SetStatus(ctx, user, next); err != nil {
		return nil, err
	}
	logging.FromContext(ctx, s.logger).Info("user status changed",
		zap.String("user_id", user.ID), zap.String("status", string(next)))
	return user, nil
}

func (s *UserService) loadProfile(ctx context.Context, user *domain.User) error {
	if user.ProfileID == nil || *user.ProfileID == "" {
		return nil
	}
	profile, err := s.profiles.FindByID(ctx, *user.ProfileID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load profile: %w", err)
	}
	user.Profile = profile
	return nil
}

func SplitSkills(raw string) []string {
	skills := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func nonBlank(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
