package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mhalligan/clinicbook/internal/admin"
	"github.com/mhalligan/clinicbook/internal/appointments"
	"github.com/mhalligan/clinicbook/internal/auth"
	"github.com/mhalligan/clinicbook/internal/contact"
	httpmiddleware "github.com/mhalligan/clinicbook/internal/http/middleware"
	"github.com/mhalligan/clinicbook/internal/users"
	"github.com/mhalligan/clinicbook/internal/web"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger *logging.Logger

	Pages               *web.Handlers
	Sessions            *auth.Middleware
	AppointmentsHandler *appointments.Handler
	ContactHandler      *contact.Handler

	// Admin dashboard (optional; requires AdminAuthSecret)
	AdminStatsHandler *admin.StatsHandler
	AdminAuthSecret   string

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Login attempts per second per IP; 0 disables the limiter.
	LoginRateLimit float64
	LoginBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.Sessions != nil {
		r.Use(cfg.Sessions.LoadUser)
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		public.Handle("/static/*", web.StaticHandler())
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Get("/", cfg.Pages.Home)
		public.Get("/about", cfg.Pages.About)
		public.Get("/doctors", cfg.Pages.Doctors)
		public.Get("/contact", cfg.Pages.ContactPage)
		public.Post("/contact", cfg.Pages.ContactSubmit)
		public.Get("/register", cfg.Pages.RegisterPage)
		public.Post("/register", cfg.Pages.RegisterSubmit)
		public.Get("/login", cfg.Pages.LoginPage)
		if cfg.LoginRateLimit > 0 {
			public.With(httpmiddleware.RateLimit(cfg.LoginRateLimit, cfg.LoginBurst)).
				Post("/login", cfg.Pages.LoginSubmit)
		} else {
			public.Post("/login", cfg.Pages.LoginSubmit)
		}
		public.Get("/logout", cfg.Pages.Logout)

		// JSON API shared with the booking page's slot picker.
		public.Get("/api/doctors/{doctorID}/available-slots", cfg.AppointmentsHandler.AvailableSlots)
		public.Post("/api/contact", cfg.ContactHandler.CreateSubmission)
	})

	// Logged-in pages
	r.Group(func(private chi.Router) {
		private.Use(cfg.Sessions.RequireUser)
		private.Get("/dashboard", cfg.Pages.PatientDashboard)
		private.Get("/profile", cfg.Pages.ProfilePage)
		private.Post("/profile", cfg.Pages.ProfileSubmit)
		private.Post("/appointments/{id}/cancel", cfg.Pages.CancelAppointment)

		// Only patients book for themselves.
		private.Group(func(patient chi.Router) {
			patient.Use(cfg.Sessions.RequireRole(users.RolePatient))
			patient.Get("/book", cfg.Pages.BookPage)
			patient.Post("/book", cfg.Pages.BookSubmit)
		})

		private.Group(func(doctor chi.Router) {
			doctor.Use(cfg.Sessions.RequireRole(users.RoleDoctor))
			doctor.Get("/doctor/dashboard", cfg.Pages.DoctorDashboard)
			doctor.Post("/appointments/{id}/confirm", cfg.Pages.ConfirmAppointment)
			doctor.Post("/appointments/{id}/complete", cfg.Pages.CompleteAppointment)
			doctor.Get("/appointments/{id}/notes", cfg.Pages.NotesPage)
			doctor.Post("/appointments/{id}/notes", cfg.Pages.NotesSubmit)
		})
	})

	// Admin API (protected by HMAC JWT)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(adminRouter chi.Router) {
			adminRouter.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.AdminStatsHandler != nil {
				adminRouter.Get("/api/stats", cfg.AdminStatsHandler.GetStats)
			}
			adminRouter.Get("/api/contact-submissions", cfg.ContactHandler.ListSubmissions)
		})
	}

	r.NotFound(cfg.Pages.NotFound)
	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
