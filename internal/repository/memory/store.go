// Package memory keeps every record in process memory. It backs
// STORE_DRIVER=memory for local runs and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hirehub/hirehub-backend/internal/domain"
	"github.com/hirehub/hirehub-backend/internal/repository/ports"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	profiles map[string]domain.Profile
	otps     map[string]domain.OTP
	contacts map[string]domain.ContactMessage
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		profiles: make(map[string]domain.Profile),
		otps:     make(map[string]domain.OTP),
		contacts: make(map[string]domain.ContactMessage),
		now:      time.Now,
	}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Profiles() *ProfileRepository { return &ProfileRepository{s: s} }
func (s *Store) OTPs() *OTPRepository         { return &OTPRepository{s: s} }
func (s *Store) Contacts() *ContactRepository { return &ContactRepository{s: s} }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return nil, ports.ErrDuplicate
		}
	}
	u := cloneUser(*user)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := r.s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = u
	out := cloneUser(u)
	return &out, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	return r.mutate(id, func(u *domain.User) { u.IsVerified = true })
}

func (r *UserRepository) SetStatus(ctx context.Context, id string, status domain.UserStatus) error {
	return r.mutate(id, func(u *domain.User) { u.Status = status })
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash, passwordSalt []byte) error {
	return r.mutate(id, func(u *domain.User) {
		u.PasswordHash = append([]byte(nil), passwordHash...)
		u.PasswordSalt = append([]byte(nil), passwordSalt...)
	})
}

func (r *UserRepository) UpdateIdentity(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if patch.Email != nil && *patch.Email != u.Email {
		for otherID, other := range r.s.users {
			if otherID != id && other.Email == *patch.Email {
				return nil, ports.ErrDuplicate
			}
		}
		u.Email = *patch.Email
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.PhoneNumber != nil {
		u.PhoneNumber = *patch.PhoneNumber
	}
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	out := cloneUser(u)
	return &out, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]domain.User, error) {
	r.s.mu.RLock()
	matched := make([]domain.User, 0)
	for _, u := range r.s.users {
		if u.Role == role {
			matched = append(matched, cloneUser(u))
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return page(matched, limit, offset), nil
}

func (r *UserRepository) mutate(id string, fn func(*domain.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return ports.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

type ProfileRepository struct{ s *Store }

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := cloneProfile(*profile)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := r.s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.profiles[p.ID] = p
	out := cloneProfile(p)
	return &out, nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := cloneProfile(p)
	return &out, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.profiles[profile.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	p := cloneProfile(*profile)
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.s.now()
	r.s.profiles[p.ID] = p
	out := cloneProfile(p)
	return &out, nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.s.profiles, id)
	return nil
}

// Count is used by tests to assert that no orphan profiles are left behind.
func (r *ProfileRepository) Count() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.profiles)
}

type OTPRepository struct{ s *Store }

func (r *OTPRepository) Create(ctx context.Context, email, code string, createdAt time.Time) (*domain.OTP, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec := domain.OTP{ID: uuid.NewString(), Email: email, Code: code, CreatedAt: createdAt}
	r.s.otps[rec.ID] = rec
	return &rec, nil
}

func (r *OTPRepository) FindByEmailAndCode(ctx context.Context, email, code string) (*domain.OTP, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rec := range r.s.otps {
		if rec.Email == email && rec.Code == code {
			out := rec
			return &out, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *OTPRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.otps, id)
	return nil
}

// ForEmail returns every outstanding record for email, oldest first.
func (r *OTPRepository) ForEmail(email string) []domain.OTP {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.OTP
	for _, rec := range r.s.otps {
		if rec.Email == email {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

type ContactRepository struct{ s *Store }

func (r *ContactRepository) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m := *msg
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = r.s.now()
	r.s.contacts[m.ID] = m
	out := m
	return &out, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.contacts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &m, nil
}

func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	r.s.mu.RLock()
	out := make([]domain.ContactMessage, 0, len(r.s.contacts))
	for _, m := range r.s.contacts {
		out = append(out, m)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contacts[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.s.contacts, id)
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func cloneUser(u domain.User) domain.User {
	u.PasswordHash = append([]byte(nil), u.PasswordHash...)
	u.PasswordSalt = append([]byte(nil), u.PasswordSalt...)
	u.Profile = nil
	return u
}

func cloneProfile(p domain.Profile) domain.Profile {
	p.Skills = append([]string(nil), p.Skills...)
	return p
}

var (
	_ ports.UserRepository    = (*UserRepository)(nil)
	_ ports.ProfileRepository = (*ProfileRepository)(nil)
	_ ports.OTPRepository     = (*OTPRepository)(nil)
	_ ports.ContactRepository = (*ContactRepository)(nil)
)
