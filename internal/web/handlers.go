package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mhalligan/clinicbook/internal/appointments"
	"github.com/mhalligan/clinicbook/internal/auth"
	"github.com/mhalligan/clinicbook/internal/contact"
	"github.com/mhalligan/clinicbook/internal/doctors"
	"github.com/mhalligan/clinicbook/internal/forms"
	"github.com/mhalligan/clinicbook/internal/users"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

// Handlers serves the server-rendered pages. Invalid submissions are pushed
// back through the same validation rules the browser applies, so the
// re-rendered page carries the exact error decorations.
type Handlers struct {
	render     *Renderer
	auth       *auth.Service
	appts      *appointments.Service
	doctors    doctors.Repository
	users      users.Repository
	contact    contact.Repository
	forms      *forms.Controller
	cookieName string
	logger     *logging.Logger
}

// NewHandlers wires the page handlers.
func NewHandlers(
	render *Renderer,
	authSvc *auth.Service,
	appts *appointments.Service,
	docs doctors.Repository,
	usrs users.Repository,
	contactRepo contact.Repository,
	cookieName string,
	logger *logging.Logger,
) *Handlers {
	if render == nil {
		render = NewRenderer(logger)
	}
	if cookieName == "" {
		cookieName = "clinicbook_session"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handlers{
		render:     render,
		auth:       authSvc,
		appts:      appts,
		doctors:    docs,
		users:      usrs,
		contact:    contactRepo,
		forms:      forms.NewController(nil, nil),
		cookieName: cookieName,
		logger:     logger,
	}
}

func (h *Handlers) page(r *http.Request, title string, data any) pageData {
	user, _ := auth.UserFromContext(r.Context())
	return pageData{Title: title, User: user, Data: data}
}

// checkForm renders the page, runs the named form's rules against the
// submitted values, and, when validation fails, writes the decorated page.
// It reports whether the submission may proceed.
func (h *Handlers) checkForm(w http.ResponseWriter, name string, data pageData, formID string, form url.Values) bool {
	var buf bytes.Buffer
	if err := h.render.RenderTo(&buf, name, data); err != nil {
		h.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return false
	}
	doc, err := forms.ParseDocumentString(buf.String())
	if err != nil {
		h.logger.Error("rendered page unparsable", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return false
	}

	page := h.forms.Bind(doc)
	outcome, _ := page.Submit(formID, forms.RequestValues(form))
	if outcome == forms.OutcomeAccepted {
		return true
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := doc.Render(w); err != nil {
		h.logger.Error("decorated page render failed", "template", name, "error", err)
	}
	return false
}

func formValues(form url.Values, fields ...string) map[string]string {
	vals := make(map[string]string, len(fields))
	for _, f := range fields {
		vals[f] = form.Get(f)
	}
	return vals
}

// Home handles GET / requests
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	featured, err := h.doctors.Featured(r.Context(), 4)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "home", h.page(r, "Home", struct {
		Featured []*doctors.Doctor
	}{featured}))
}

// About handles GET /about requests
func (h *Handlers) About(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "about", h.page(r, "About us", nil))
}

// Doctors handles GET /doctors requests
func (h *Handlers) Doctors(w http.ResponseWriter, r *http.Request) {
	filter := doctors.ListFilter{
		Specialization: r.URL.Query().Get("specialization"),
		Search:         r.URL.Query().Get("q"),
	}
	list, err := h.doctors.List(r.Context(), filter)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	specs, err := h.doctors.Specializations(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "doctors", h.page(r, "Doctors", struct {
		Doctors         []*doctors.Doctor
		Specializations []string
		Selected        string
		Search          string
	}{list, specs, filter.Specialization, filter.Search}))
}

type contactData struct {
	Values map[string]string
	Sent   bool
}

// ContactPage handles GET /contact requests
func (h *Handlers) ContactPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "contact", h.page(r, "Contact", contactData{
		Values: map[string]string{},
	}))
}

// ContactSubmit handles POST /contact requests
func (h *Handlers) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	data := h.page(r, "Contact", contactData{
		Values: formValues(r.PostForm, "name", "email", "phone", "subject", "message"),
	})
	if !h.checkForm(w, "contact", data, forms.ContactFormID, r.PostForm) {
		return
	}

	_, err := h.contact.Create(r.Context(), &contact.CreateSubmissionRequest{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Phone:   r.PostForm.Get("phone"),
		Subject: r.PostForm.Get("subject"),
		Message: r.PostForm.Get("message"),
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "contact", h.page(r, "Contact", contactData{
		Values: map[string]string{},
		Sent:   true,
	}))
}

type valuesData struct {
	Values map[string]string
}

// LoginPage handles GET /login requests
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "login", h.page(r, "Log in", valuesData{map[string]string{}}))
}

// LoginSubmit handles POST /login requests
func (h *Handlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	data := h.page(r, "Log in", valuesData{formValues(r.PostForm, "username")})
	if !h.checkForm(w, "login", data, forms.LoginFormID, r.PostForm) {
		return
	}

	user, token, err := h.auth.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			data.Error = "Invalid username or password."
			h.render.Render(w, http.StatusUnauthorized, "login", data)
			return
		}
		h.serverError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if user.IsDoctor() {
		http.Redirect(w, r, "/doctor/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout handles GET /logout requests
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("logout failed", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{Name: h.cookieName, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterPage handles GET /register requests
func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "register", h.page(r, "Register", valuesData{
		map[string]string{"role": "patient"},
	}))
}

// RegisterSubmit handles POST /register requests
func (h *Handlers) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	data := h.page(r, "Register", valuesData{
		formValues(r.PostForm, "full_name", "username", "email", "phone_number", "date_of_birth", "role"),
	})
	if !h.checkForm(w, "register", data, forms.RegisterFormID, r.PostForm) {
		return
	}

	var dob *time.Time
	if raw := r.PostForm.Get("date_of_birth"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			data.Error = "Please enter your date of birth as YYYY-MM-DD."
			h.render.Render(w, http.StatusUnprocessableEntity, "register", data)
			return
		}
		dob = &parsed
	}

	_, err := h.auth.Register(r.Context(), &users.CreateUserRequest{
		Username:    r.PostForm.Get("username"),
		Email:       r.PostForm.Get("email"),
		Password:    r.PostForm.Get("password"),
		FullName:    r.PostForm.Get("full_name"),
		PhoneNumber: r.PostForm.Get("phone_number"),
		DateOfBirth: dob,
		Role:        users.Role(r.PostForm.Get("role")),
	})
	if err != nil {
		if msg := registerErrorMessage(err); msg != "" {
			data.Error = msg
			h.render.Render(w, http.StatusUnprocessableEntity, "register", data)
			return
		}
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func registerErrorMessage(err error) string {
	switch {
	case errors.Is(err, users.ErrUsernameTaken):
		return "That username is already taken."
	case errors.Is(err, users.ErrEmailTaken):
		return "An account with that email already exists."
	case errors.Is(err, users.ErrInvalidUsername):
		return "Username must be at least 3 characters."
	case errors.Is(err, users.ErrInvalidEmail):
		return "Please enter a valid email address."
	case errors.Is(err, users.ErrPasswordTooShort):
		return "Password must be at least 8 characters."
	case errors.Is(err, users.ErrMissingFullName):
		return "Please tell us your name."
	case errors.Is(err, users.ErrInvalidPhone):
		return "Please enter a valid phone number."
	case errors.Is(err, users.ErrInvalidRole):
		return "Please choose a valid account type."
	}
	return ""
}

type bookData struct {
	Doctors []*doctors.Doctor
	Slots   []string
	Values  map[string]string
}

// BookPage handles GET /book requests. When a doctor and date are supplied
// as query parameters the free slots are prefilled server-side.
func (h *Handlers) BookPage(w http.ResponseWriter, r *http.Request) {
	list, err := h.doctors.List(r.Context(), doctors.ListFilter{})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	vals := map[string]string{
		"doctor_id":        r.URL.Query().Get("doctor_id"),
		"appointment_date": r.URL.Query().Get("date"),
	}
	var slots []string
	if vals["doctor_id"] != "" && vals["appointment_date"] != "" {
		slots, err = h.appts.AvailableSlots(r.Context(), vals["doctor_id"], vals["appointment_date"])
		if err != nil && !errors.Is(err, appointments.ErrInvalidDate) && !errors.Is(err, appointments.ErrDoctorNotFound) {
			h.serverError(w, r, err)
			return
		}
	}
	h.render.Render(w, http.StatusOK, "book_appointment", h.page(r, "Book an appointment", bookData{
		Doctors: list,
		Slots:   slots,
		Values:  vals,
	}))
}

// BookSubmit handles POST /book requests
func (h *Handlers) BookSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	list, err := h.doctors.List(r.Context(), doctors.ListFilter{})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	vals := formValues(r.PostForm, "doctor_id", "appointment_date", "appointment_time", "reason_for_visit")
	slots, _ := h.appts.AvailableSlots(r.Context(), vals["doctor_id"], vals["appointment_date"])
	data := h.page(r, "Book an appointment", bookData{Doctors: list, Slots: slots, Values: vals})
	if !h.checkForm(w, "book_appointment", data, forms.BookFormID, r.PostForm) {
		return
	}

	_, err = h.appts.Book(r.Context(), &appointments.BookRequest{
		PatientID: user.ID,
		DoctorID:  vals["doctor_id"],
		Date:      vals["appointment_date"],
		TimeSlot:  vals["appointment_time"],
		Reason:    vals["reason_for_visit"],
	})
	if err != nil {
		if msg := bookingErrorMessage(err); msg != "" {
			data.Error = msg
			h.render.Render(w, http.StatusUnprocessableEntity, "book_appointment", data)
			return
		}
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func bookingErrorMessage(err error) string {
	switch {
	case errors.Is(err, appointments.ErrDateInPast):
		return "Please choose a date in the future."
	case errors.Is(err, appointments.ErrInvalidDate):
		return "Please choose a valid date."
	case errors.Is(err, appointments.ErrDoctorNotFound):
		return "Please select a doctor."
	case errors.Is(err, appointments.ErrSlotUnavailable):
		return "The doctor is not available at that day and time."
	case errors.Is(err, appointments.ErrSlotTaken):
		return "That time slot was just taken. Please pick another."
	case errors.Is(err, appointments.ErrPatientConflict):
		return "You already have an appointment at that time."
	}
	return ""
}

// PatientDashboard handles GET /dashboard requests
func (h *Handlers) PatientDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	// Doctors land on their own schedule instead of an empty patient view.
	if user.IsDoctor() {
		http.Redirect(w, r, "/doctor/dashboard", http.StatusSeeOther)
		return
	}
	upcoming, err := h.appts.UpcomingForPatient(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	history, err := h.appts.HistoryForPatient(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "patient_dashboard", h.page(r, "Your appointments", struct {
		Upcoming []*appointments.Appointment
		History  []*appointments.Appointment
	}{upcoming, history}))
}

// DoctorDashboard handles GET /doctor/dashboard requests
func (h *Handlers) DoctorDashboard(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.doctorProfile(w, r)
	if !ok {
		return
	}
	schedule, err := h.appts.ScheduleForDoctor(r.Context(), doc.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	stats, err := h.appts.StatsForDoctor(r.Context(), doc.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "doctor_dashboard", h.page(r, "Your schedule", struct {
		Schedule []*appointments.Appointment
		Stats    *appointments.DoctorStats
	}{schedule, stats}))
}

// CancelAppointment handles POST /appointments/{id}/cancel requests
func (h *Handlers) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	h.appointmentAction(w, r, func(ctx context.Context, id string, actor appointments.Actor) error {
		_, err := h.appts.Cancel(ctx, id, actor)
		return err
	})
}

// ConfirmAppointment handles POST /appointments/{id}/confirm requests
func (h *Handlers) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	h.appointmentAction(w, r, func(ctx context.Context, id string, actor appointments.Actor) error {
		_, err := h.appts.Confirm(ctx, id, actor)
		return err
	})
}

// CompleteAppointment handles POST /appointments/{id}/complete requests
func (h *Handlers) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	h.appointmentAction(w, r, func(ctx context.Context, id string, actor appointments.Actor) error {
		_, err := h.appts.Complete(ctx, id, actor)
		return err
	})
}

func (h *Handlers) appointmentAction(w http.ResponseWriter, r *http.Request, action func(context.Context, string, appointments.Actor) error) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := action(r.Context(), id, actor); err != nil {
		h.renderActionError(w, r, err)
		return
	}
	if actor.Role == users.RoleDoctor {
		http.Redirect(w, r, "/doctor/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// NotesPage handles GET /appointments/{id}/notes requests
func (h *Handlers) NotesPage(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	appt, err := h.appts.GetForActor(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		h.renderActionError(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "appointment_notes", h.page(r, "Visit notes", struct {
		Appointment *appointments.Appointment
	}{appt}))
}

// NotesSubmit handles POST /appointments/{id}/notes requests
func (h *Handlers) NotesSubmit(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	if _, err := h.appts.SaveNotes(r.Context(), chi.URLParam(r, "id"), actor, r.PostForm.Get("notes")); err != nil {
		h.renderActionError(w, r, err)
		return
	}
	http.Redirect(w, r, "/doctor/dashboard", http.StatusSeeOther)
}

type profileData struct {
	Values map[string]string
	Saved  bool
}

// ProfilePage handles GET /profile requests
func (h *Handlers) ProfilePage(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.render.Render(w, http.StatusOK, "profile_edit", h.page(r, "Edit profile", profileData{
		Values: map[string]string{
			"full_name":    user.FullName,
			"email":        user.Email,
			"phone_number": user.PhoneNumber,
		},
	}))
}

// ProfileSubmit handles POST /profile requests
func (h *Handlers) ProfileSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}
	vals := formValues(r.PostForm, "full_name", "email", "phone_number")
	data := h.page(r, "Edit profile", profileData{Values: vals})

	_, err := h.users.UpdateProfile(r.Context(), user.ID, &users.UpdateProfileRequest{
		FullName:    vals["full_name"],
		Email:       vals["email"],
		PhoneNumber: vals["phone_number"],
	})
	if err != nil {
		if msg := registerErrorMessage(err); msg != "" {
			data.Error = msg
			h.render.Render(w, http.StatusUnprocessableEntity, "profile_edit", data)
			return
		}
		h.serverError(w, r, err)
		return
	}
	data.Data = profileData{Values: vals, Saved: true}
	h.render.Render(w, http.StatusOK, "profile_edit", data)
}

// NotFound handles unmatched routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusNotFound, "not_found", h.page(r, "Not found", nil))
}

func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("page handler failed", "path", r.URL.Path, "error", err)
	h.render.Render(w, http.StatusInternalServerError, "server_error", h.page(r, "Something went wrong", nil))
}

func (h *Handlers) renderActionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, appointments.ErrAppointmentNotFound):
		h.NotFound(w, r)
	case errors.Is(err, appointments.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, appointments.ErrNotCancellable), errors.Is(err, appointments.ErrInvalidTransition):
		http.Error(w, "appointment state does not allow that action", http.StatusConflict)
	default:
		h.serverError(w, r, err)
	}
}

// actor resolves the logged-in user to an appointment actor, looking up the
// doctor profile when needed.
func (h *Handlers) actor(w http.ResponseWriter, r *http.Request) (appointments.Actor, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return appointments.Actor{}, false
	}
	actor := appointments.Actor{UserID: user.ID, Role: user.Role}
	if user.IsDoctor() {
		doc, err := h.doctors.GetByUserID(r.Context(), user.ID)
		if err != nil {
			h.serverError(w, r, err)
			return appointments.Actor{}, false
		}
		actor.DoctorID = doc.ID
	}
	return actor, true
}

func (h *Handlers) doctorProfile(w http.ResponseWriter, r *http.Request) (*doctors.Doctor, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, false
	}
	doc, err := h.doctors.GetByUserID(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return nil, false
	}
	return doc, true
}
