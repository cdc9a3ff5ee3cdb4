package users

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidUsername is returned for usernames shorter than 3 characters.
	ErrInvalidUsername = errors.New("username must be at least 3 characters")

	// ErrInvalidEmail is returned for malformed email addresses.
	ErrInvalidEmail = errors.New("a valid email address is required")

	// ErrPasswordTooShort is returned for passwords shorter than 8 characters.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	// ErrMissingFullName is returned when the full name is blank.
	ErrMissingFullName = errors.New("full name is required")

	// ErrInvalidPhone is returned for malformed phone numbers.
	ErrInvalidPhone = errors.New("phone number must contain 10 to 15 digits")

	// ErrInvalidRole is returned for roles other than patient or doctor.
	ErrInvalidRole = errors.New("role must be patient or doctor")
)
