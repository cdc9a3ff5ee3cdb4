package users

import (
	"time"

	"github.com/mhalligan/clinicbook/internal/forms"
)

// Role is the account type. Admins are created out of band.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// User represents an account: patient, doctor, or administrator.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	FullName     string     `json:"full_name"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// IsPatient reports whether the user is a patient.
func (u *User) IsPatient() bool { return u.Role == RolePatient }

// IsDoctor reports whether the user is a doctor.
func (u *User) IsDoctor() bool { return u.Role == RoleDoctor }

// IsAdmin reports whether the user is an administrator.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// DisplayName prefers the full name, falling back to the username.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// CreateUserRequest carries a registration. Password is the plaintext the
// caller hashes before it reaches a repository.
type CreateUserRequest struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
	DateOfBirth *time.Time
	Role        Role
}

// Validate mirrors the registration form's rules; repositories call it so no
// path around the handler can store a malformed account.
func (r *CreateUserRequest) Validate() error {
	if !forms.IsNonEmpty(r.Username) || !forms.MinLength(r.Username, 3) {
		return ErrInvalidUsername
	}
	if !forms.IsValidEmail(r.Email) {
		return ErrInvalidEmail
	}
	if !forms.MinLength(r.Password, 8) {
		return ErrPasswordTooShort
	}
	if !forms.IsNonEmpty(r.FullName) {
		return ErrMissingFullName
	}
	if !forms.IsValidPhone(r.PhoneNumber) {
		return ErrInvalidPhone
	}
	if r.Role != RolePatient && r.Role != RoleDoctor {
		return ErrInvalidRole
	}
	return nil
}

// UpdateProfileRequest carries a profile edit: full name, email, phone.
type UpdateProfileRequest struct {
	FullName    string
	Email       string
	PhoneNumber string
}

// Validate mirrors the profile edit form's rules.
func (r *UpdateProfileRequest) Validate() error {
	if !forms.IsNonEmpty(r.FullName) {
		return ErrMissingFullName
	}
	if !forms.IsValidEmail(r.Email) {
		return ErrInvalidEmail
	}
	if !forms.IsValidPhone(r.PhoneNumber) {
		return ErrInvalidPhone
	}
	return nil
}
