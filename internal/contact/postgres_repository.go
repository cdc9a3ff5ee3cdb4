package contact

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores contact submissions in the relational database.
type PostgresRepository struct {
	db dbtx
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db dbtx) *PostgresRepository {
	if db == nil {
		panic("contact: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new submission.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateSubmissionRequest) (*Submission, error) {
	id := uuid.New().String()
	query := `
		INSERT INTO contact_submissions (id, name, email, phone, subject, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	sub := &Submission{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	err := r.db.QueryRow(ctx, query, id, req.Name, req.Email, req.Phone, req.Subject, req.Message).
		Scan(&sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("contact: insert failed: %w", err)
	}
	return sub, nil
}

// List returns submissions newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Submission, error) {
	query := `
		SELECT id, name, email, phone, subject, message, created_at
		FROM contact_submissions
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("contact: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Subject, &s.Message, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("contact: scan failed: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
