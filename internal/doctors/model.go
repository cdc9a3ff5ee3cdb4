package doctors

import "strings"

// Default availability for a freshly registered doctor; editable later from
// the dashboard.
const (
	DefaultAvailableDays  = "Mon,Tue,Wed,Thu,Fri"
	DefaultTimeSlots      = "09:00,10:00,11:00,14:00,15:00"
	DefaultSpecialization = "General Practice"
)

// Doctor holds a medical professional's profile. FullName and Username are
// denormalized from the linked user account for display.
type Doctor struct {
	ID                   string `json:"id"`
	UserID               string `json:"user_id"`
	FullName             string `json:"full_name"`
	Username             string `json:"username"`
	Specialization       string `json:"specialization"`
	Qualifications       string `json:"qualifications,omitempty"`
	YearsOfExperience    int    `json:"years_of_experience,omitempty"`
	ConsultationFeeCents int64  `json:"consultation_fee_cents,omitempty"`
	// AvailableDays is a CSV of Mon..Sun abbreviations.
	AvailableDays string `json:"available_days"`
	// AvailableTimeSlots is a CSV of HH:MM slots.
	AvailableTimeSlots string `json:"available_time_slots"`
	AboutText          string `json:"about_text,omitempty"`
}

// DisplayName renders "Dr. <name> (<specialization>)" for selection lists.
func (d *Doctor) DisplayName() string {
	name := d.FullName
	if name == "" {
		name = d.Username
	}
	return "Dr. " + name + " (" + d.Specialization + ")"
}

// AvailableOn reports whether the doctor works on the given weekday
// abbreviation (Mon, Tue, ...).
func (d *Doctor) AvailableOn(day string) bool {
	for _, v := range splitCSV(d.AvailableDays) {
		if v == day {
			return true
		}
	}
	return false
}

// Slots returns the doctor's time slots in declaration order.
func (d *Doctor) Slots() []string {
	return splitCSV(d.AvailableTimeSlots)
}

// HasSlot reports whether the given HH:MM time is one of the doctor's slots.
func (d *Doctor) HasSlot(slot string) bool {
	for _, v := range d.Slots() {
		if v == slot {
			return true
		}
	}
	return false
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CreateDoctorRequest carries a new doctor profile.
type CreateDoctorRequest struct {
	UserID               string
	Specialization       string
	Qualifications       string
	YearsOfExperience    int
	ConsultationFeeCents int64
	AvailableDays        string
	AvailableTimeSlots   string
	AboutText            string
}

// Validate fills defaults and rejects profiles without an owner.
func (r *CreateDoctorRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrMissingUser
	}
	if strings.TrimSpace(r.Specialization) == "" {
		r.Specialization = DefaultSpecialization
	}
	if strings.TrimSpace(r.AvailableDays) == "" {
		r.AvailableDays = DefaultAvailableDays
	}
	if strings.TrimSpace(r.AvailableTimeSlots) == "" {
		r.AvailableTimeSlots = DefaultTimeSlots
	}
	return nil
}

// ListFilter narrows a doctor listing.
type ListFilter struct {
	// Specialization filters by exact specialization.
	Specialization string
	// Search matches name, username, or specialization, case-insensitively.
	Search string
}
