package contact

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mhalligan/clinicbook/pkg/logging"
)

func TestCreateSubmission(t *testing.T) {
	repo := NewInMemoryRepository()
	h := NewHandler(repo, logging.Default())

	body := `{"name":"Pat","email":"pat@example.com","subject":"Hours","message":"Are you open Saturdays?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateSubmission(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var sub Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if sub.ID == "" || sub.CreatedAt.IsZero() {
		t.Errorf("submission not persisted: %+v", sub)
	}

	stored, _ := repo.List(req.Context())
	if len(stored) != 1 {
		t.Errorf("expected 1 stored submission, got %d", len(stored))
	}
}

func TestCreateSubmissionValidation(t *testing.T) {
	h := NewHandler(NewInMemoryRepository(), logging.Default())

	body := `{"name":"","email":"not-an-email","phone":"123","subject":"","message":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateSubmission(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	for _, field := range []string{"name", "email", "phone", "subject", "message"} {
		if resp.Errors[field] == "" {
			t.Errorf("expected an error for %q, got %v", field, resp.Errors)
		}
	}
}

func TestCreateSubmissionOptionalPhone(t *testing.T) {
	h := NewHandler(NewInMemoryRepository(), logging.Default())

	body := `{"name":"Pat","email":"pat@example.com","subject":"x","message":"y"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateSubmission(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("blank phone should pass: status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestCreateSubmissionBadBody(t *testing.T) {
	h := NewHandler(NewInMemoryRepository(), logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.CreateSubmission(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListSubmissionsNewestFirst(t *testing.T) {
	repo := NewInMemoryRepository()
	h := NewHandler(repo, logging.Default())
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	repo.Create(ctx, &CreateSubmissionRequest{Name: "A", Email: "a@example.com", Subject: "1", Message: "m"})
	repo.Create(ctx, &CreateSubmissionRequest{Name: "B", Email: "b@example.com", Subject: "2", Message: "m"})

	rec := httptest.NewRecorder()
	h.ListSubmissions(rec, httptest.NewRequest(http.MethodGet, "/admin/contact-submissions", nil))

	var resp struct {
		Submissions []*Submission `json:"submissions"`
		Count       int           `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Count != 2 || resp.Submissions[0].Name != "B" {
		t.Errorf("expected newest first, got %+v", resp)
	}
}
