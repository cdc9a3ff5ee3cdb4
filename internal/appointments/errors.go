package appointments

import "errors"

var (
	// ErrAppointmentNotFound is returned when no appointment matches the lookup.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrDoctorNotFound is returned when the booking names an unknown doctor.
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrMissingParty is returned when patient or doctor is absent.
	ErrMissingParty = errors.New("appointment requires a patient and a doctor")

	// ErrInvalidDate is returned when the date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid appointment date")

	// ErrMissingSlot is returned when no time slot was chosen.
	ErrMissingSlot = errors.New("appointment requires a time slot")

	// ErrMissingReason is returned when no visit reason was given.
	ErrMissingReason = errors.New("appointment requires a reason")

	// ErrDateInPast is returned when booking a day that already passed.
	ErrDateInPast = errors.New("appointment date is in the past")

	// ErrSlotUnavailable is returned when the doctor does not offer the
	// requested day or time.
	ErrSlotUnavailable = errors.New("doctor is not available at that time")

	// ErrSlotTaken is returned when another patient holds the slot.
	ErrSlotTaken = errors.New("time slot is already booked")

	// ErrPatientConflict is returned when the patient already has an active
	// appointment at the same date and time.
	ErrPatientConflict = errors.New("patient already has an appointment at that time")

	// ErrNotCancellable is returned when the appointment is already
	// completed or cancelled.
	ErrNotCancellable = errors.New("appointment can no longer be cancelled")

	// ErrInvalidTransition is returned for status changes the lifecycle
	// does not allow.
	ErrInvalidTransition = errors.New("invalid appointment status transition")

	// ErrForbidden is returned when the actor does not own the appointment.
	ErrForbidden = errors.New("appointment does not belong to actor")
)
