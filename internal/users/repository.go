package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for user storage
type Repository interface {
	Create(ctx context.Context, req *CreateUserRequest, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// InMemoryRepository is a Repository backed by process memory. Used in tests
// and local development without a database.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

// Create stores a new user after checking uniqueness.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateUserRequest, passwordHash string) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == req.Username {
			return nil, ErrUsernameTaken
		}
		if strings.EqualFold(u.Email, req.Email) {
			return nil, ErrEmailTaken
		}
	}

	user := &User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: passwordHash,
		Role:         req.Role,
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		DateOfBirth:  req.DateOfBirth,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[user.ID] = user
	return copyUser(user), nil
}

// GetByID retrieves a user by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyUser(user), nil
}

// GetByUsername retrieves a user by username.
func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

// UpdateProfile applies a profile edit.
func (r *InMemoryRepository) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	for otherID, u := range r.users {
		if otherID != id && strings.EqualFold(u.Email, req.Email) {
			return nil, ErrEmailTaken
		}
	}
	user.FullName = strings.TrimSpace(req.FullName)
	user.Email = strings.TrimSpace(req.Email)
	user.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	return copyUser(user), nil
}

// TouchLastLogin records a successful login time.
func (r *InMemoryRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	at = at.UTC()
	user.LastLogin = &at
	return nil
}

func copyUser(u *User) *User {
	c := *u
	if u.DateOfBirth != nil {
		d := *u.DateOfBirth
		c.DateOfBirth = &d
	}
	if u.LastLogin != nil {
		l := *u.LastLogin
		c.LastLogin = &l
	}
	return &c
}
