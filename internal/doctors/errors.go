package doctors

import "errors"

var (
	// ErrDoctorNotFound is returned when no doctor matches the lookup.
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrMissingUser is returned when a profile has no owning user.
	ErrMissingUser = errors.New("doctor profile requires a user")

	// ErrProfileExists is returned when the user already has a profile.
	ErrProfileExists = errors.New("doctor profile already exists for user")
)
