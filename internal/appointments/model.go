package appointments

import (
	"strings"
	"time"
)

// Status tracks an appointment through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Active reports whether the appointment still occupies its time slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// DateFormat is the wire format for appointment dates.
const DateFormat = "2006-01-02"

// Appointment is a booked visit between a patient and a doctor. PatientName
// and DoctorName are denormalized from the owning accounts for display.
type Appointment struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	DoctorID    string    `json:"doctor_id"`
	PatientName string    `json:"patient_name,omitempty"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	Date        time.Time `json:"date"`
	TimeSlot    string    `json:"time_slot"`
	Reason      string    `json:"reason"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DateString renders the visit date in wire format.
func (a *Appointment) DateString() string {
	return a.Date.Format(DateFormat)
}

// CanCancel reports whether the appointment may still be called off.
func (a *Appointment) CanCancel() bool {
	return a.Status.Active()
}

// BookRequest carries a new booking from the web form or API.
type BookRequest struct {
	PatientID string
	DoctorID  string
	Date      string // DateFormat
	TimeSlot  string
	Reason    string
}

// Validate checks the request shape; scheduling rules live in the service.
func (r *BookRequest) Validate() error {
	if strings.TrimSpace(r.PatientID) == "" || strings.TrimSpace(r.DoctorID) == "" {
		return ErrMissingParty
	}
	if _, err := time.Parse(DateFormat, r.Date); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(r.TimeSlot) == "" {
		return ErrMissingSlot
	}
	if strings.TrimSpace(r.Reason) == "" {
		return ErrMissingReason
	}
	return nil
}

// normalizeDate strips the clock so dates compare by calendar day.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
