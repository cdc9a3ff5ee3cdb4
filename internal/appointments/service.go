package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mhalligan/clinicbook/internal/doctors"
	"github.com/mhalligan/clinicbook/internal/observability/metrics"
	"github.com/mhalligan/clinicbook/internal/users"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

var tracer = otel.Tracer("clinicbook.internal.appointments")

// Notifier delivers booking emails. Implementations must not block the
// booking path on delivery failures.
type Notifier interface {
	BookingConfirmation(ctx context.Context, email string, appt *Appointment) error
	BookingCancellation(ctx context.Context, email string, appt *Appointment) error
}

// Actor identifies who is acting on an appointment. DoctorID is set only
// when Role is doctor.
type Actor struct {
	UserID   string
	DoctorID string
	Role     users.Role
}

// DoctorStats summarizes a doctor's schedule for the dashboard.
type DoctorStats struct {
	Today int `json:"today"`
	Week  int `json:"week"`
	Month int `json:"month"`
	Total int `json:"total"`
}

// Service enforces the scheduling rules around the repositories.
type Service struct {
	appts    Repository
	doctors  doctors.Repository
	users    users.Repository
	notifier Notifier
	metrics  *metrics.BookingMetrics
	log      *logging.Logger
	now      func() time.Time
}

// NewService wires the booking service. notifier and m may be nil.
func NewService(appts Repository, docs doctors.Repository, usrs users.Repository, notifier Notifier, m *metrics.BookingMetrics, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Default()
	}
	return &Service{
		appts:    appts,
		doctors:  docs,
		users:    usrs,
		notifier: notifier,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Book validates the scheduling rules and creates a pending appointment.
func (s *Service) Book(ctx context.Context, req *BookRequest) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinicbook.doctor_id", req.DoctorID),
		attribute.String("clinicbook.date", req.Date),
	)
	start := s.now()

	appt, err := s.book(ctx, req)
	elapsed := s.now().Sub(start).Seconds()
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("rejected", elapsed)
		return nil, err
	}
	s.metrics.ObserveBooking("accepted", elapsed)

	s.log.Info("appointment booked",
		"appointment_id", appt.ID,
		"doctor_id", appt.DoctorID,
		"date", appt.DateString(),
		"time_slot", appt.TimeSlot,
	)
	s.notifyBooked(ctx, appt)
	return appt, nil
}

func (s *Service) book(ctx context.Context, req *BookRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	date, _ := time.Parse(DateFormat, req.Date)
	date = normalizeDate(date)
	today := normalizeDate(s.now().UTC())
	if date.Before(today) {
		return nil, ErrDateInPast
	}

	doc, err := s.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctors.ErrDoctorNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("appointments: doctor lookup failed: %w", err)
	}
	if !doc.AvailableOn(date.Format("Mon")) || !doc.HasSlot(req.TimeSlot) {
		return nil, ErrSlotUnavailable
	}

	taken, err := s.appts.ActiveSlots(ctx, req.DoctorID, date)
	if err != nil {
		return nil, err
	}
	for _, slot := range taken {
		if slot == req.TimeSlot {
			return nil, ErrSlotTaken
		}
	}

	conflict, err := s.appts.PatientHasActive(ctx, req.PatientID, date, req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrPatientConflict
	}

	appt := &Appointment{
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		DoctorName: doc.DisplayName(),
		Date:       date,
		TimeSlot:   req.TimeSlot,
		Reason:     req.Reason,
		Status:     StatusPending,
	}
	if s.users != nil {
		if patient, err := s.users.GetByID(ctx, req.PatientID); err == nil {
			appt.PatientName = patient.DisplayName()
		}
	}
	return s.appts.Create(ctx, appt)
}

// Cancel calls off an active appointment on behalf of its patient, its
// doctor, or an admin.
func (s *Service) Cancel(ctx context.Context, id string, actor Actor) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("clinicbook.appointment_id", id))

	appt, err := s.authorized(ctx, id, actor)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !appt.CanCancel() {
		return nil, ErrNotCancellable
	}
	if err := s.appts.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		span.RecordError(err)
		return nil, err
	}
	appt.Status = StatusCancelled
	s.metrics.ObserveCancellation(string(actor.Role))

	s.log.Info("appointment cancelled", "appointment_id", id, "role", string(actor.Role))
	s.notifyCancelled(ctx, appt)
	return appt, nil
}

// Confirm moves a pending appointment to confirmed. Doctors may confirm
// their own appointments; admins any.
func (s *Service) Confirm(ctx context.Context, id string, actor Actor) (*Appointment, error) {
	return s.transition(ctx, id, actor, StatusConfirmed, func(st Status) bool {
		return st == StatusPending
	})
}

// Complete marks an active appointment as completed.
func (s *Service) Complete(ctx context.Context, id string, actor Actor) (*Appointment, error) {
	return s.transition(ctx, id, actor, StatusCompleted, func(st Status) bool {
		return st.Active()
	})
}

func (s *Service) transition(ctx context.Context, id string, actor Actor, to Status, allowed func(Status) bool) (*Appointment, error) {
	if actor.Role == users.RolePatient {
		return nil, ErrForbidden
	}
	appt, err := s.authorized(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !allowed(appt.Status) {
		return nil, ErrInvalidTransition
	}
	if err := s.appts.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	appt.Status = to
	return appt, nil
}

// SaveNotes stores the doctor's visit notes on an appointment.
func (s *Service) SaveNotes(ctx context.Context, id string, actor Actor, notes string) (*Appointment, error) {
	if actor.Role == users.RolePatient {
		return nil, ErrForbidden
	}
	appt, err := s.authorized(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if err := s.appts.UpdateNotes(ctx, id, notes); err != nil {
		return nil, err
	}
	appt.Notes = notes
	return appt, nil
}

// GetForActor fetches an appointment the actor is allowed to see.
func (s *Service) GetForActor(ctx context.Context, id string, actor Actor) (*Appointment, error) {
	return s.authorized(ctx, id, actor)
}

// AvailableSlots returns the doctor's free slots for a date. Past dates and
// off days yield an empty list rather than an error.
func (s *Service) AvailableSlots(ctx context.Context, doctorID, dateStr string) ([]string, error) {
	date, err := time.Parse(DateFormat, dateStr)
	if err != nil {
		return nil, ErrInvalidDate
	}
	date = normalizeDate(date)

	doc, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, doctors.ErrDoctorNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("appointments: doctor lookup failed: %w", err)
	}

	today := normalizeDate(s.now().UTC())
	if date.Before(today) || !doc.AvailableOn(date.Format("Mon")) {
		return []string{}, nil
	}

	taken, err := s.appts.ActiveSlots(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	held := make(map[string]bool, len(taken))
	for _, slot := range taken {
		held[slot] = true
	}

	free := []string{}
	for _, slot := range doc.Slots() {
		if !held[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}

// UpcomingForPatient returns the patient's active appointments from today on.
func (s *Service) UpcomingForPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	all, err := s.appts.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	today := normalizeDate(s.now().UTC())
	var out []*Appointment
	for _, a := range all {
		if a.Status.Active() && !a.Date.Before(today) {
			out = append(out, a)
		}
	}
	return out, nil
}

// HistoryForPatient returns the patient's completed, cancelled, and elapsed
// appointments.
func (s *Service) HistoryForPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	all, err := s.appts.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	today := normalizeDate(s.now().UTC())
	var out []*Appointment
	for _, a := range all {
		if !a.Status.Active() || a.Date.Before(today) {
			out = append(out, a)
		}
	}
	return out, nil
}

// ScheduleForDoctor returns all of a doctor's appointments in date order.
func (s *Service) ScheduleForDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	return s.appts.ListForDoctor(ctx, doctorID)
}

// StatsForDoctor computes dashboard counts for the doctor's schedule.
func (s *Service) StatsForDoctor(ctx context.Context, doctorID string) (*DoctorStats, error) {
	all, err := s.appts.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	today := normalizeDate(s.now().UTC())
	week := today.AddDate(0, 0, 7)
	month := today.AddDate(0, 1, 0)

	stats := &DoctorStats{Total: len(all)}
	for _, a := range all {
		if !a.Status.Active() || a.Date.Before(today) {
			continue
		}
		if a.Date.Equal(today) {
			stats.Today++
		}
		if a.Date.Before(week) {
			stats.Week++
		}
		if a.Date.Before(month) {
			stats.Month++
		}
	}
	return stats, nil
}

func (s *Service) authorized(ctx context.Context, id string, actor Actor) (*Appointment, error) {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case users.RoleAdmin:
	case users.RoleDoctor:
		if appt.DoctorID != actor.DoctorID {
			return nil, ErrForbidden
		}
	case users.RolePatient:
		if appt.PatientID != actor.UserID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	return appt, nil
}

func (s *Service) notifyBooked(ctx context.Context, appt *Appointment) {
	email, ok := s.patientEmail(ctx, appt.PatientID)
	if !ok || s.notifier == nil {
		return
	}
	if err := s.notifier.BookingConfirmation(ctx, email, appt); err != nil {
		s.log.Warn("booking confirmation email failed", "appointment_id", appt.ID, "error", err)
	}
}

func (s *Service) notifyCancelled(ctx context.Context, appt *Appointment) {
	email, ok := s.patientEmail(ctx, appt.PatientID)
	if !ok || s.notifier == nil {
		return
	}
	if err := s.notifier.BookingCancellation(ctx, email, appt); err != nil {
		s.log.Warn("cancellation email failed", "appointment_id", appt.ID, "error", err)
	}
}

func (s *Service) patientEmail(ctx context.Context, patientID string) (string, bool) {
	if s.users == nil {
		return "", false
	}
	patient, err := s.users.GetByID(ctx, patientID)
	if err != nil || patient.Email == "" {
		return "", false
	}
	return patient.Email, true
}
