package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for appointment storage
type Repository interface {
	Create(ctx context.Context, appt *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateNotes(ctx context.Context, id string, notes string) error
	ListForPatient(ctx context.Context, patientID string) ([]*Appointment, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]*Appointment, error)
	// ActiveSlots returns the time slots held by pending or confirmed
	// appointments with the doctor on the given day.
	ActiveSlots(ctx context.Context, doctorID string, date time.Time) ([]string, error)
	// PatientHasActive reports whether the patient already holds a pending
	// or confirmed appointment at the given date and slot.
	PatientHasActive(ctx context.Context, patientID string, date time.Time, slot string) (bool, error)
}

// InMemoryRepository is a Repository backed by process memory.
type InMemoryRepository struct {
	mu    sync.RWMutex
	appts map[string]*Appointment
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appts: make(map[string]*Appointment)}
}

// Create stores a new appointment, assigning its ID and timestamps.
func (r *InMemoryRepository) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *appt
	stored.ID = uuid.New().String()
	stored.Date = normalizeDate(stored.Date)
	stored.CreatedAt = time.Now().UTC()
	if stored.Status == "" {
		stored.Status = StatusPending
	}
	r.appts[stored.ID] = &stored
	out := stored
	return &out, nil
}

// GetByID retrieves an appointment by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	out := *appt
	return &out, nil
}

// UpdateStatus changes the lifecycle status of an appointment.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appts[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	appt.Status = status
	return nil
}

// UpdateNotes replaces the doctor's notes on an appointment.
func (r *InMemoryRepository) UpdateNotes(ctx context.Context, id string, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appts[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	appt.Notes = notes
	return nil
}

// ListForPatient returns a patient's appointments ordered by date and slot.
func (r *InMemoryRepository) ListForPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	return r.list(func(a *Appointment) bool { return a.PatientID == patientID }), nil
}

// ListForDoctor returns a doctor's appointments ordered by date and slot.
func (r *InMemoryRepository) ListForDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	return r.list(func(a *Appointment) bool { return a.DoctorID == doctorID }), nil
}

// ActiveSlots returns slots held by pending or confirmed appointments.
func (r *InMemoryRepository) ActiveSlots(ctx context.Context, doctorID string, date time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	date = normalizeDate(date)
	var out []string
	for _, a := range r.appts {
		if a.DoctorID == doctorID && a.Status.Active() && a.Date.Equal(date) {
			out = append(out, a.TimeSlot)
		}
	}
	sort.Strings(out)
	return out, nil
}

// PatientHasActive reports whether the patient holds the slot already.
func (r *InMemoryRepository) PatientHasActive(ctx context.Context, patientID string, date time.Time, slot string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	date = normalizeDate(date)
	for _, a := range r.appts {
		if a.PatientID == patientID && a.Status.Active() && a.Date.Equal(date) && a.TimeSlot == slot {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) list(match func(*Appointment) bool) []*Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Appointment
	for _, a := range r.appts {
		if match(a) {
			c := *a
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TimeSlot < out[j].TimeSlot
	})
	return out
}
