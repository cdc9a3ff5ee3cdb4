package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mhalligan/clinicbook/internal/users"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

func newTestMiddleware(t *testing.T) (*Middleware, *SessionStore, *users.User) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Hour)

	userRepo := users.NewInMemoryRepository()
	user, err := userRepo.Create(context.Background(), &users.CreateUserRequest{
		Username: "pat", Email: "pat@example.com", Password: "longenough",
		FullName: "Pat Example", Role: users.RolePatient,
	}, "hash")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return NewMiddleware(store, userRepo, "clinicbook_session", logging.Default()), store, user
}

func whoami(t *testing.T) (http.Handler, *string) {
	var seen string
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := UserFromContext(r.Context()); ok {
			seen = u.Username
		}
		w.WriteHeader(http.StatusOK)
	}), &seen
}

func TestLoadUserAttachesSessionUser(t *testing.T) {
	mw, store, user := newTestMiddleware(t)
	token, err := store.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	inner, seen := whoami(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: mw.CookieName(), Value: token})
	rec := httptest.NewRecorder()
	mw.LoadUser(inner).ServeHTTP(rec, req)

	if *seen != "pat" {
		t.Errorf("user not attached, saw %q", *seen)
	}
}

func TestLoadUserIgnoresBadCookie(t *testing.T) {
	mw, _, _ := newTestMiddleware(t)

	inner, seen := whoami(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: mw.CookieName(), Value: "bogus"})
	rec := httptest.NewRecorder()
	mw.LoadUser(inner).ServeHTTP(rec, req)

	if *seen != "" {
		t.Errorf("anonymous request should carry no user, saw %q", *seen)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("request should pass through, got %d", rec.Code)
	}
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	mw, _, _ := newTestMiddleware(t)
	inner, _ := whoami(t)

	rec := httptest.NewRecorder()
	mw.RequireUser(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRequireRole(t *testing.T) {
	mw, _, user := newTestMiddleware(t)
	inner, _ := whoami(t)
	guard := mw.RequireRole(users.RoleDoctor)(inner)

	// Wrong role: forbidden.
	req := httptest.NewRequest(http.MethodGet, "/doctor/dashboard", nil)
	req = req.WithContext(WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("patient on doctor page: got %d, want 403", rec.Code)
	}

	// Right role: passes.
	doctor := &users.User{ID: "d", Username: "doc", Role: users.RoleDoctor}
	req = httptest.NewRequest(http.MethodGet, "/doctor/dashboard", nil)
	req = req.WithContext(WithUser(req.Context(), doctor))
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("doctor on doctor page: got %d, want 200", rec.Code)
	}

	// Anonymous: redirected.
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctor/dashboard", nil))
	if rec.Code != http.StatusSeeOther {
		t.Errorf("anonymous: got %d, want 303", rec.Code)
	}
}
