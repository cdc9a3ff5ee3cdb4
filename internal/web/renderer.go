package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/mhalligan/clinicbook/internal/users"
	"github.com/mhalligan/clinicbook/pkg/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData is the envelope every template receives.
type pageData struct {
	Title string
	User  *users.User
	Error string
	Data  any
}

// Renderer renders the embedded page templates inside the shared layout.
type Renderer struct {
	pages  map[string]*template.Template
	logger *logging.Logger
}

// NewRenderer parses every page template against the layout. It panics on a
// malformed template since that is a build defect, not a runtime condition.
func NewRenderer(logger *logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.Default()
	}

	names := []string{
		"home", "about", "doctors", "contact", "login", "register",
		"book_appointment", "patient_dashboard", "doctor_dashboard",
		"profile_edit", "appointment_notes", "not_found", "server_error",
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			panic(fmt.Sprintf("web: failed to parse template %s: %v", name, err))
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, logger: logger}
}

// RenderTo writes the named page to any writer. Used by handlers that need
// the markup as a string before it goes out.
func (r *Renderer) RenderTo(w io.Writer, name string, data pageData) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("web: unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Render writes the named page to the response with the given status.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, name, data); err != nil {
		r.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
