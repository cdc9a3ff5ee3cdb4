package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db dbtx
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db dbtx) *PostgresRepository {
	if db == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

const apptSelect = `
	SELECT a.id, a.patient_id, a.doctor_id, p.full_name, du.full_name,
	       a.date, a.time_slot, a.reason, a.status, a.notes, a.created_at
	FROM appointments a
	JOIN users p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id
	JOIN users du ON du.id = d.user_id
`

// Create inserts a new appointment and returns it with names attached.
func (r *PostgresRepository) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	id := uuid.New()
	status := appt.Status
	if status == "" {
		status = StatusPending
	}
	query := `
		INSERT INTO appointments (id, patient_id, doctor_id, date, time_slot, reason, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		id,
		appt.PatientID,
		appt.DoctorID,
		normalizeDate(appt.Date),
		appt.TimeSlot,
		appt.Reason,
		string(status),
		appt.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}
	return r.GetByID(ctx, id.String())
}

// GetByID fetches an appointment by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	a, err := scanAppointment(r.db.QueryRow(ctx, apptSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return a, nil
}

// UpdateStatus changes the lifecycle status of an appointment.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE appointments SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("appointments: update status failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// UpdateNotes replaces the doctor's notes on an appointment.
func (r *PostgresRepository) UpdateNotes(ctx context.Context, id string, notes string) error {
	tag, err := r.db.Exec(ctx, `UPDATE appointments SET notes = $1 WHERE id = $2`, notes, id)
	if err != nil {
		return fmt.Errorf("appointments: update notes failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// ListForPatient returns a patient's appointments ordered by date and slot.
func (r *PostgresRepository) ListForPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	return r.listWhere(ctx, `a.patient_id = $1`, patientID)
}

// ListForDoctor returns a doctor's appointments ordered by date and slot.
func (r *PostgresRepository) ListForDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	return r.listWhere(ctx, `a.doctor_id = $1`, doctorID)
}

// ActiveSlots returns slots held by pending or confirmed appointments.
func (r *PostgresRepository) ActiveSlots(ctx context.Context, doctorID string, date time.Time) ([]string, error) {
	query := `
		SELECT time_slot FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND status IN ('pending', 'confirmed')
		ORDER BY time_slot
	`
	rows, err := r.db.Query(ctx, query, doctorID, normalizeDate(date))
	if err != nil {
		return nil, fmt.Errorf("appointments: active slots failed: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

// PatientHasActive reports whether the patient holds the slot already.
func (r *PostgresRepository) PatientHasActive(ctx context.Context, patientID string, date time.Time, slot string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE patient_id = $1 AND date = $2 AND time_slot = $3
			  AND status IN ('pending', 'confirmed')
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, patientID, normalizeDate(date), slot).Scan(&exists); err != nil {
		return false, fmt.Errorf("appointments: conflict check failed: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) listWhere(ctx context.Context, where string, arg any) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, apptSelect+` WHERE `+where+` ORDER BY a.date, a.time_slot`, arg)
	if err != nil {
		return nil, fmt.Errorf("appointments: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var status string
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.PatientName,
		&a.DoctorName,
		&a.Date,
		&a.TimeSlot,
		&a.Reason,
		&status,
		&a.Notes,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = Status(status)
	return &a, nil
}
