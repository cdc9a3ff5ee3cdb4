package appointments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mhalligan/clinicbook/pkg/logging"
)

func slotsRouter(f *fixture) http.Handler {
	h := NewHandler(f.svc, logging.Default())
	r := chi.NewRouter()
	r.Get("/api/doctors/{doctorID}/available-slots", h.AvailableSlots)
	return r
}

func TestAvailableSlotsEndpoint(t *testing.T) {
	f := newFixture(t)
	router := slotsRouter(f)

	req := httptest.NewRequest(http.MethodGet, "/api/doctors/"+f.doctor.ID+"/available-slots?date=2025-03-10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp AvailableSlotsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if len(resp.Slots) != 2 || resp.Date != "2025-03-10" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAvailableSlotsEndpointErrors(t *testing.T) {
	f := newFixture(t)
	router := slotsRouter(f)

	cases := []struct {
		path string
		want int
	}{
		{"/api/doctors/" + f.doctor.ID + "/available-slots", http.StatusBadRequest},
		{"/api/doctors/" + f.doctor.ID + "/available-slots?date=bogus", http.StatusBadRequest},
		{"/api/doctors/missing/available-slots?date=2025-03-10", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.path, rec.Code, tc.want)
		}
	}
}
