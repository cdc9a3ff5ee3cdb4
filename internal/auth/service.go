package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mhalligan/clinicbook/internal/doctors"
	"github.com/mhalligan/clinicbook/internal/observability/metrics"
	"github.com/mhalligan/clinicbook/internal/users"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

// Service handles registration, login, and logout.
type Service struct {
	users    users.Repository
	doctors  doctors.Repository
	sessions *SessionStore
	metrics  *metrics.BookingMetrics
	log      *logging.Logger
}

// NewService wires the auth service. m may be nil.
func NewService(usrs users.Repository, docs doctors.Repository, sessions *SessionStore, m *metrics.BookingMetrics, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Default()
	}
	return &Service{
		users:    usrs,
		doctors:  docs,
		sessions: sessions,
		metrics:  m,
		log:      log,
	}
}

// Register creates a new account. Doctor accounts also get a starter
// profile with the default availability so they can be booked right away.
func (s *Service) Register(ctx context.Context, req *users.CreateUserRequest) (*users.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, req, hash)
	if err != nil {
		return nil, err
	}

	if user.IsDoctor() && s.doctors != nil {
		if _, err := s.doctors.Create(ctx, &doctors.CreateDoctorRequest{UserID: user.ID}); err != nil {
			s.log.Error("failed to create doctor profile", "user_id", user.ID, "error", err)
			return nil, fmt.Errorf("auth: doctor profile creation failed: %w", err)
		}
	}

	s.log.Info("user registered", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

// Login checks credentials and opens a session. The identifier may be a
// username or an email address.
func (s *Service) Login(ctx context.Context, identifier, password string) (*users.User, string, error) {
	user, err := s.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			s.metrics.ObserveLogin("failure")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !CheckPassword(user.PasswordHash, password) {
		s.metrics.ObserveLogin("failure")
		return nil, "", ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.log.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	token, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}
	s.metrics.ObserveLogin("success")
	s.log.Info("user logged in", "user_id", user.ID, "role", string(user.Role))
	return user, token, nil
}

// Logout closes the session behind a token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func (s *Service) lookup(ctx context.Context, identifier string) (*users.User, error) {
	user, err := s.users.GetByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, users.ErrUserNotFound) {
		return nil, err
	}
	return s.users.GetByEmail(ctx, identifier)
}
