package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/mhalligan/clinicbook/internal/users"
)

// DefaultSessionTTL bounds how long a login survives without activity.
const DefaultSessionTTL = 24 * time.Hour

// Session is the server-side record behind a session cookie.
type Session struct {
	UserID    string     `json:"user_id"`
	Role      users.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// SessionStore keeps sessions in Redis so logins survive restarts and are
// shared across instances.
type SessionStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if client == nil {
		panic("auth: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("clinicbook.internal.auth.sessions"),
	}
}

// Create stores a new session and returns its opaque token.
func (s *SessionStore) Create(ctx context.Context, user *users.User) (string, error) {
	ctx, span := s.tracer.Start(ctx, "auth.create_session")
	defer span.End()

	token := uuid.New().String()
	data, err := json.Marshal(Session{
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("auth: failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(token), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("auth: failed to persist session: %w", err)
	}
	return token, nil
}

// Get loads a session by token and slides its expiry forward.
func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "auth.load_session")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("auth: failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("auth: failed to decode session: %w", err)
	}

	// Rolling expiry; a failed touch does not invalidate the login.
	_ = s.redis.Expire(ctx, sessionKey(token), s.ttl).Err()
	return &sess, nil
}

// Delete removes a session. Unknown tokens are not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "auth.delete_session")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(token)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("auth: failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}
