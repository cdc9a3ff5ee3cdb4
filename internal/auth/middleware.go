package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/mhalligan/clinicbook/internal/users"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// UserFromContext returns the logged-in user attached by the middleware.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	u, ok := ctx.Value(userContextKey).(*users.User)
	return u, ok
}

// WithUser attaches a user to the context; used by handlers under test.
func WithUser(ctx context.Context, u *users.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// Middleware resolves session cookies to users for the request chain.
type Middleware struct {
	sessions   *SessionStore
	users      users.Repository
	cookieName string
	logger     *logging.Logger
}

// NewMiddleware creates session middleware around the store.
func NewMiddleware(sessions *SessionStore, usrs users.Repository, cookieName string, logger *logging.Logger) *Middleware {
	if cookieName == "" {
		cookieName = "clinicbook_session"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Middleware{
		sessions:   sessions,
		users:      usrs,
		cookieName: cookieName,
		logger:     logger,
	}
}

// CookieName returns the configured session cookie name.
func (m *Middleware) CookieName() string { return m.cookieName }

// LoadUser attaches the current user to the context when a valid session
// cookie is present. Anonymous requests pass through untouched.
func (m *Middleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := m.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) {
				m.logger.Error("session lookup failed", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.GetByID(r.Context(), sess.UserID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireUser redirects anonymous requests to the login page.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects logged-in users of the wrong role with 403 and sends
// anonymous users to the login page.
func (m *Middleware) RequireRole(role users.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if user.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
