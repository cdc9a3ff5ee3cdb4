package forms

import "testing"

func TestIsValidEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"user@example.com", true},
		{"  User@Example.COM  ", true},
		{"first.last@sub.example.org", true},
		{"user@example", false},
		{"userexample.com", false},
		{"user @example.com", false},
		{"user@exa mple.com", false},
		{"@example.com", false},
		{"user@.com", false},
		{"", false},
		{"   ", false},
	}
	for _, tc := range cases {
		if got := IsValidEmail(tc.in); got != tc.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"123-456-7890", true},
		{"(937) 896-2713", true},
		{"+1 937 896 2713", true},
		{"123456789012345", true},
		{"12345", false},
		{"1234567890123456", false},
		{"abc", false},
	}
	for _, tc := range cases {
		if got := IsValidPhone(tc.in); got != tc.want {
			t.Errorf("IsValidPhone(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsNonEmpty(t *testing.T) {
	if IsNonEmpty("   ") {
		t.Error("whitespace-only value should be empty")
	}
	if !IsNonEmpty(" x ") {
		t.Error("value with content should be non-empty")
	}
}

func TestMinLength(t *testing.T) {
	if MinLength("short", 8) {
		t.Error("5 chars should fail MinLength 8")
	}
	if !MinLength("longenough", 8) {
		t.Error("10 chars should pass MinLength 8")
	}
	// Passwords are not trimmed.
	if !MinLength("      pw", 8) {
		t.Error("padded 8-char value should pass")
	}
}

func TestEquals(t *testing.T) {
	if !Equals("secret", "secret") {
		t.Error("identical strings should be equal")
	}
	if Equals("secret", "Secret") {
		t.Error("comparison must be case-sensitive")
	}
}
