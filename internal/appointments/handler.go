package appointments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mhalligan/clinicbook/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// AvailableSlotsResponse is the response for the slot lookup.
type AvailableSlotsResponse struct {
	DoctorID string   `json:"doctor_id"`
	Date     string   `json:"date"`
	Slots    []string `json:"slots"`
}

// AvailableSlots handles GET /api/doctors/{doctorID}/available-slots requests
func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")
	date := r.URL.Query().Get("date")
	if doctorID == "" || date == "" {
		http.Error(w, "missing doctor_id or date", http.StatusBadRequest)
		return
	}

	slots, err := h.service.AvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		case errors.Is(err, ErrDoctorNotFound):
			http.Error(w, "doctor not found", http.StatusNotFound)
		default:
			h.logger.Error("failed to load available slots", "doctor_id", doctorID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AvailableSlotsResponse{
		DoctorID: doctorID,
		Date:     date,
		Slots:    slots,
	})
}
