package users

import (
	"context"
	"testing"
	"time"
)

func validRequest() *CreateUserRequest {
	return &CreateUserRequest{
		Username:    "jroe",
		Email:       "jane@example.com",
		Password:    "longenough",
		FullName:    "Jane Roe",
		PhoneNumber: "937-896-2713",
		Role:        RolePatient,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	user, err := repo.Create(ctx, validRequest(), "hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" || user.CreatedAt.IsZero() {
		t.Error("expected ID and CreatedAt to be set")
	}

	byName, err := repo.GetByUsername(ctx, "jroe")
	if err != nil || byName.ID != user.ID {
		t.Fatalf("GetByUsername: %v", err)
	}
	byEmail, err := repo.GetByEmail(ctx, "JANE@EXAMPLE.COM")
	if err != nil || byEmail.ID != user.ID {
		t.Fatalf("GetByEmail should be case-insensitive: %v", err)
	}
}

func TestCreateRejectsDuplicates(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, validRequest(), "hash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := validRequest()
	dup.Email = "other@example.com"
	if _, err := repo.Create(ctx, dup, "hash"); err != ErrUsernameTaken {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	dup = validRequest()
	dup.Username = "other"
	if _, err := repo.Create(ctx, dup, "hash"); err != ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	cases := []struct {
		mutate func(*CreateUserRequest)
		want   error
	}{
		{func(r *CreateUserRequest) { r.Username = "ab" }, ErrInvalidUsername},
		{func(r *CreateUserRequest) { r.Email = "nope" }, ErrInvalidEmail},
		{func(r *CreateUserRequest) { r.Password = "short" }, ErrPasswordTooShort},
		{func(r *CreateUserRequest) { r.FullName = "  " }, ErrMissingFullName},
		{func(r *CreateUserRequest) { r.PhoneNumber = "123" }, ErrInvalidPhone},
		{func(r *CreateUserRequest) { r.Role = RoleAdmin }, ErrInvalidRole},
	}
	for _, tc := range cases {
		req := validRequest()
		tc.mutate(req)
		if _, err := repo.Create(ctx, req, "hash"); err != tc.want {
			t.Errorf("expected %v, got %v", tc.want, err)
		}
	}
}

func TestOptionalPhoneAllowed(t *testing.T) {
	repo := NewInMemoryRepository()
	req := validRequest()
	req.PhoneNumber = ""
	if _, err := repo.Create(context.Background(), req, "hash"); err != nil {
		t.Fatalf("blank phone should be allowed: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	user, _ := repo.Create(ctx, validRequest(), "hash")

	updated, err := repo.UpdateProfile(ctx, user.ID, &UpdateProfileRequest{
		FullName:    "Jane R. Roe",
		Email:       "jane.roe@example.com",
		PhoneNumber: "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FullName != "Jane R. Roe" || updated.Email != "jane.roe@example.com" {
		t.Errorf("profile not applied: %+v", updated)
	}

	if _, err := repo.UpdateProfile(ctx, "missing", &UpdateProfileRequest{
		FullName: "X", Email: "x@example.com",
	}); err != ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTouchLastLogin(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	user, _ := repo.Create(ctx, validRequest(), "hash")

	at := time.Now()
	if err := repo.TouchLastLogin(ctx, user.ID, at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.GetByID(ctx, user.ID)
	if got.LastLogin == nil || !got.LastLogin.Equal(at.UTC()) {
		t.Errorf("last login not recorded: %v", got.LastLogin)
	}
}
