package doctors

import (
	"context"
	"errors"
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

// PostgresRepository stores doctors in the relational database.
type PostgresRepository struct {
	db dbtx
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db dbtx) *PostgresRepository {
	if db == nil {
		panic("doctors: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

const doctorSelect = `
	SELECT d.id, d.user_id, u.full_name, u.username, d.specialization,
	       d.qualifications, d.years_of_experience, d.consultation_fee_cents,
	       d.available_days, d.available_time_slots, d.about_text
	FROM doctors d
	JOIN users u ON u.id = d.user_id
`

// Create inserts a new doctor profile.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO doctors (id, user_id, specialization, qualifications, years_of_experience,
		                     consultation_fee_cents, available_days, available_time_slots, about_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		id,
		req.UserID,
		req.Specialization,
		req.Qualifications,
		req.YearsOfExperience,
		req.ConsultationFeeCents,
		req.AvailableDays,
		req.AvailableTimeSlots,
		req.AboutText,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("doctors: insert failed: %w", err)
	}

	return r.GetByID(ctx, id.String())
}

// GetByID fetches a doctor by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	return r.scanOne(r.db.QueryRow(ctx, doctorSelect+` WHERE d.id = $1`, id))
}

// GetByUserID fetches the doctor profile owned by a user.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*Doctor, error) {
	return r.scanOne(r.db.QueryRow(ctx, doctorSelect+` WHERE d.user_id = $1`, userID))
}

// List returns doctors matching the filter.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Doctor, error) {
	query := doctorSelect + ` WHERE 1=1`
	args := []any{}
	if filter.Specialization != "" {
		args = append(args, filter.Specialization)
		query += fmt.Sprintf(" AND d.specialization = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(
			" AND (u.full_name ILIKE $%d OR u.username ILIKE $%d OR d.specialization ILIKE $%d)",
			n, n, n,
		)
	}
	query += ` ORDER BY u.full_name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("doctors: list failed: %w", err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// Featured returns the first limit doctors for the home page.
func (r *PostgresRepository) Featured(ctx context.Context, limit int) ([]*Doctor, error) {
	rows, err := r.db.Query(ctx, doctorSelect+` ORDER BY u.full_name LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("doctors: featured failed: %w", err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// Specializations returns the distinct specializations, sorted.
func (r *PostgresRepository) Specializations(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT specialization FROM doctors ORDER BY specialization`)
	if err != nil {
		return nil, fmt.Errorf("doctors: specializations failed: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("doctors: scan failed: %w", err)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out, rows.Err()
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Doctor, error) {
	d, err := scanDoctor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("doctors: select failed: %w", err)
	}
	return d, nil
}

func scanAll(rows pgx.Rows) ([]*Doctor, error) {
	var out []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("doctors: scan failed: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.FullName,
		&d.Username,
		&d.Specialization,
		&d.Qualifications,
		&d.YearsOfExperience,
		&d.ConsultationFeeCents,
		&d.AvailableDays,
		&d.AvailableTimeSlots,
		&d.AboutText,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
