package forms

// Form and element ids shared with the page templates.
const (
	ContactFormID  = "contact-form"
	RegisterFormID = "register-form"
	LoginFormID    = "login-form"
	BookFormID     = "book-appointment-form"

	// TimeSlotBannerID is the shared error banner for the time slot picker;
	// the slot buttons have no per-field message element.
	TimeSlotBannerID = "time-slot-error"

	// DoctorUnselectedValue is the sentinel option meaning no doctor chosen.
	DoctorUnselectedValue = "0"
)

// ContactForm returns the rule table for the contact page form.
func ContactForm() FormDef {
	return FormDef{
		ID: ContactFormID,
		Rules: []Rule{
			{Field: "name", Required: true, Message: "Name is required."},
			{Field: "email", Required: true, Message: "Email is required."},
			{Field: "email", Message: "Please enter a valid email address.",
				Check: func(v string, _ Values) bool { return IsValidEmail(v) }},
			{Field: "phone", WhenPresent: true, Message: "Please enter a valid phone number.",
				Check: func(v string, _ Values) bool { return IsValidPhone(v) }},
			{Field: "subject", Required: true, Message: "Subject is required."},
			{Field: "message", Required: true, Message: "Message is required."},
		},
	}
}

// RegisterForm returns the rule table for the registration form.
func RegisterForm() FormDef {
	return FormDef{
		ID: RegisterFormID,
		Rules: []Rule{
			{Field: "username", WhenPresent: true, Message: "Username must be at least 3 characters.",
				Check: func(v string, _ Values) bool { return MinLength(v, 3) }},
			{Field: "password", Required: true, Message: "Password is required."},
			{Field: "password", Message: "Password must be at least 8 characters.",
				Check: func(v string, _ Values) bool { return MinLength(v, 8) }},
			{Field: "confirm_password", Message: "Passwords must match.",
				Check: func(v string, vals Values) bool {
					password, _ := vals.Get("password")
					return Equals(v, password)
				}},
		},
	}
}

// LoginForm returns the rule table for the login form. Presence only; the
// server decides whether the credentials are any good.
func LoginForm() FormDef {
	return FormDef{
		ID: LoginFormID,
		Rules: []Rule{
			{Field: "username", Required: true, Message: "Username is required."},
			{Field: "password", Required: true, Message: "Password is required."},
		},
	}
}

// BookAppointmentForm returns the rule table for the appointment booking form.
func BookAppointmentForm() FormDef {
	return FormDef{
		ID: BookFormID,
		Rules: []Rule{
			{Field: "doctor_id", Required: true, Message: "Please select a doctor."},
			{Field: "doctor_id", Message: "Please select a doctor.",
				Check: func(v string, _ Values) bool { return v != DoctorUnselectedValue }},
			{Field: "appointment_date", Required: true, Message: "Please select a date."},
			{Field: "appointment_time", Required: true, Banner: TimeSlotBannerID,
				Message: "Please select a time."},
			{Field: "reason_for_visit", Required: true,
				Message: "Please briefly describe your reason for the visit."},
		},
	}
}

// DefaultForms returns every form the controller knows how to validate.
func DefaultForms() []FormDef {
	return []FormDef{ContactForm(), RegisterForm(), LoginForm(), BookAppointmentForm()}
}
