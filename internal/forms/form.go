package forms

import (
	"net/url"
	"strings"
)

// Values provides field values for one submission attempt.
type Values interface {
	Get(name string) (value string, ok bool)
}

// MapValues adapts a plain map to Values.
type MapValues map[string]string

// Get implements Values.
func (m MapValues) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// RequestValues adapts url.Values (request form data) to Values.
func RequestValues(v url.Values) Values {
	return urlValues{v: v}
}

type urlValues struct {
	v url.Values
}

func (u urlValues) Get(name string) (string, bool) {
	if !u.v.Has(name) {
		return "", false
	}
	return u.v.Get(name), true
}

// Rule is one validation requirement on one field. Rules are declarative so a
// form's table doubles as its test fixture.
type Rule struct {
	// Field is the control's name attribute.
	Field string
	// Message is shown when the rule fails.
	Message string
	// Required enforces a non-blank (trimmed) value. A required control
	// missing from the document also fails the form.
	Required bool
	// WhenPresent restricts Check to non-blank values (optional fields).
	WhenPresent bool
	// Check is an extra predicate over the raw value. It receives all
	// submitted values for cross-field rules. Nil means presence only.
	Check func(value string, vals Values) bool
	// Banner names a shared error banner element id. When empty the error is
	// shown on the field's adjacent message element.
	Banner string
}

// FormDef is a named form plus its validation rule set.
type FormDef struct {
	// ID is the form element's id in the page markup.
	ID    string
	Rules []Rule
}

// Result is the outcome of one validity pass. It is recomputed from scratch
// on every submission attempt and never persisted.
type Result struct {
	OK bool
	// FieldErrors maps field name to the first failing rule's message.
	FieldErrors map[string]string
	// BannerErrors maps shared banner element id to message.
	BannerErrors map[string]string
}

// Validate evaluates every rule in one pass so the user sees all problems at
// once; there is no short-circuit on first failure. present reports whether a
// named control exists in the document; nil means all controls exist. A
// missing control fails the form only when a Required rule names it,
// otherwise its rules are skipped.
func (f FormDef) Validate(vals Values, present func(field string) bool) Result {
	res := Result{
		OK:           true,
		FieldErrors:  make(map[string]string),
		BannerErrors: make(map[string]string),
	}

	for _, r := range f.Rules {
		if _, seen := res.FieldErrors[r.Field]; seen && r.Banner == "" {
			continue
		}

		if present != nil && !present(r.Field) {
			if r.Required {
				res.fail(r)
			}
			continue
		}

		value, _ := vals.Get(r.Field)
		trimmed := strings.TrimSpace(value)

		if r.Required && trimmed == "" {
			res.fail(r)
			continue
		}
		if r.Check == nil {
			continue
		}
		if r.WhenPresent && trimmed == "" {
			continue
		}
		if !r.Check(value, vals) {
			res.fail(r)
		}
	}

	return res
}

func (r *Result) fail(rule Rule) {
	r.OK = false
	if rule.Banner != "" {
		if _, seen := r.BannerErrors[rule.Banner]; !seen {
			r.BannerErrors[rule.Banner] = rule.Message
		}
		return
	}
	if _, seen := r.FieldErrors[rule.Field]; !seen {
		r.FieldErrors[rule.Field] = rule.Message
	}
}
