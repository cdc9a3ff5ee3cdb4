package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// dbtx is the slice of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores users in the relational database.
type PostgresRepository struct {
	db dbtx
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db dbtx) *PostgresRepository {
	if db == nil {
		panic("users: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role, full_name, phone_number, date_of_birth, created_at, last_login`

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateUserRequest, passwordHash string) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO users (id, username, email, password_hash, role, full_name, phone_number, date_of_birth)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	var createdAt time.Time
	err := r.db.QueryRow(ctx, query,
		id,
		req.Username,
		strings.TrimSpace(req.Email),
		passwordHash,
		string(req.Role),
		strings.TrimSpace(req.FullName),
		strings.TrimSpace(req.PhoneNumber),
		req.DateOfBirth,
	).Scan(&createdAt)
	if err != nil {
		if taken := uniqueViolation(err); taken != nil {
			return nil, taken
		}
		return nil, fmt.Errorf("users: insert failed: %w", err)
	}

	return &User{
		ID:           id.String(),
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: passwordHash,
		Role:         req.Role,
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		DateOfBirth:  req.DateOfBirth,
		CreatedAt:    createdAt,
	}, nil
}

// GetByID fetches a user by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByUsername fetches a user by username.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, username))
}

// GetByEmail fetches a user by email, case-insensitively.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

// UpdateProfile applies a profile edit and returns the updated row.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE users
		SET full_name = $2, email = $3, phone_number = $4
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := r.scanOne(r.db.QueryRow(ctx, query,
		id,
		strings.TrimSpace(req.FullName),
		strings.TrimSpace(req.Email),
		strings.TrimSpace(req.PhoneNumber),
	))
	if err != nil {
		if taken := uniqueViolation(err); taken != nil {
			return nil, taken
		}
		return nil, err
	}
	return user, nil
}

// TouchLastLogin records a successful login time.
func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("users: update last_login failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*User, error) {
	var u User
	var role string
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.FullName,
		&u.PhoneNumber,
		&u.DateOfBirth,
		&u.CreatedAt,
		&u.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("users: select failed: %w", err)
	}
	u.Role = Role(role)
	return &u, nil
}

// uniqueViolation maps a 23505 on the users table to the matching sentinel.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}
