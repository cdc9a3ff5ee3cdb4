package contact

import (
	"encoding/json"
	"net/http"

	"github.com/mhalligan/clinicbook/internal/forms"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

// Handler handles HTTP requests for contact submissions
type Handler struct {
	repo   Repository
	form   forms.FormDef
	logger *logging.Logger
}

// NewHandler creates a new contact handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	return &Handler{
		repo:   repo,
		form:   forms.ContactForm(),
		logger: logger,
	}
}

// CreateSubmission handles POST /api/contact requests. The payload is held to
// the same rules the contact page applies in the browser.
func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	vals := forms.MapValues{
		"name":    req.Name,
		"email":   req.Email,
		"phone":   req.Phone,
		"subject": req.Subject,
		"message": req.Message,
	}
	if res := h.form.Validate(vals, nil); !res.OK {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{"errors": res.FieldErrors})
		return
	}

	sub, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to store contact submission", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("contact submission received", "id", sub.ID, "subject", sub.Subject)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sub)
}

// ListSubmissions handles GET /admin/contact-submissions requests
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list contact submissions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"submissions": subs, "count": len(subs)})
}
