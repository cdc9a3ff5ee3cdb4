package forms

import (
	"regexp"
	"strings"
)

// emailPattern matches local@domain.tld: no whitespace, exactly one @, and at
// least one dot in the domain portion.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s]+$`)

var digitPattern = regexp.MustCompile(`\D`)

// IsValidEmail reports whether the trimmed, case-normalized value looks like
// an email address. Empty values fail.
func IsValidEmail(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false
	}
	return emailPattern.MatchString(value)
}

// IsValidPhone reports whether the value is an acceptable phone number.
// Phone is optional everywhere it is checked, so blank values pass. Otherwise
// the value must contain 10 to 15 digits once formatting is stripped.
func IsValidPhone(value string) bool {
	if strings.TrimSpace(value) == "" {
		return true
	}
	digits := digitPattern.ReplaceAllString(value, "")
	return len(digits) >= 10 && len(digits) <= 15
}

// IsNonEmpty reports whether the trimmed value has any content.
func IsNonEmpty(value string) bool {
	return strings.TrimSpace(value) != ""
}

// MinLength reports whether the value is at least n characters long. The
// value is not trimmed; leading and trailing spaces count for passwords.
func MinLength(value string, n int) bool {
	return len(value) >= n
}

// Equals reports exact string equality.
func Equals(a, b string) bool {
	return a == b
}
