package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

func apptRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "patient_id", "doctor_id", "patient_name", "doctor_name",
		"date", "time_slot", "reason", "status", "notes", "created_at",
	})
}

func TestPostgresGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()
	repo := NewPostgresRepository(mock)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT a.id, a.patient_id").WithArgs("a1").
		WillReturnRows(apptRows().AddRow(
			"a1", "p1", "d1", "Pat Example", "Sarah Johnson",
			date, "09:00", "checkup", "pending", "", time.Now(),
		))

	appt, err := repo.GetByID(context.Background(), "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != StatusPending || appt.DoctorName != "Sarah Johnson" {
		t.Errorf("unexpected appointment: %+v", appt)
	}

	mock.ExpectQuery("SELECT a.id, a.patient_id").WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()
	repo := NewPostgresRepository(mock)

	mock.ExpectExec("UPDATE appointments SET status").WithArgs("cancelled", "a1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	if err := repo.UpdateStatus(context.Background(), "a1", StatusCancelled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE appointments SET status").WithArgs("cancelled", "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	if err := repo.UpdateStatus(context.Background(), "missing", StatusCancelled); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresActiveSlots(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()
	repo := NewPostgresRepository(mock)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT time_slot FROM appointments").WithArgs("d1", date).
		WillReturnRows(pgxmock.NewRows([]string{"time_slot"}).AddRow("09:00").AddRow("10:00"))

	slots, err := repo.ActiveSlots(context.Background(), "d1", date)
	if err != nil || len(slots) != 2 {
		t.Fatalf("slots = %v, err = %v", slots, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresPatientHasActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()
	repo := NewPostgresRepository(mock)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT EXISTS").WithArgs("p1", date, "09:00").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.PatientHasActive(context.Background(), "p1", date, "09:00")
	if err != nil || !taken {
		t.Fatalf("expected conflict, got taken=%v err=%v", taken, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
