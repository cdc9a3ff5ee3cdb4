package forms

import (
	"strings"

	"golang.org/x/net/html"
)

// Scroller performs an in-page scroll to an element. Wrapped behind an
// interface so tests can record calls instead of scrolling anything.
type Scroller interface {
	ScrollTo(id string)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// NoopScroller ignores scroll requests.
type NoopScroller struct{}

// ScrollTo implements Scroller.
func (NoopScroller) ScrollTo(string) {}

// AcceptAllConfirmer approves every prompt. Used where no interactive
// confirmation channel exists.
type AcceptAllConfirmer struct{}

// Confirm implements Confirmer.
func (AcceptAllConfirmer) Confirm(string) bool { return true }

// CancelConfirmPrompt is shown before a cancellation form is allowed through.
const CancelConfirmPrompt = "Are you sure you want to cancel this appointment?"

// Outcome is the submit decision for one validity pass.
type Outcome int

const (
	// OutcomeAccepted lets the native submission proceed.
	OutcomeAccepted Outcome = iota
	// OutcomeBlocked suppresses the submission and leaves errors visible.
	OutcomeBlocked
)

// Controller validates form submissions against a page and toggles the
// page's error display state. It holds no per-submission state; every pass
// recomputes validity from scratch.
type Controller struct {
	forms     map[string]FormDef
	scroller  Scroller
	confirmer Confirmer
}

// NewController builds a controller for the given form definitions. Nil seams
// fall back to no-op implementations; empty defs fall back to DefaultForms.
func NewController(scroller Scroller, confirmer Confirmer, defs ...FormDef) *Controller {
	if scroller == nil {
		scroller = NoopScroller{}
	}
	if confirmer == nil {
		confirmer = AcceptAllConfirmer{}
	}
	if len(defs) == 0 {
		defs = DefaultForms()
	}
	forms := make(map[string]FormDef, len(defs))
	for _, d := range defs {
		forms[d.ID] = d
	}
	return &Controller{forms: forms, scroller: scroller, confirmer: confirmer}
}

// Page is a controller bound to one document. Binding happens once per page
// view and only records which of the known forms the page actually contains.
type Page struct {
	c     *Controller
	doc   *Document
	bound map[string]bool
}

// Bind inspects the document for the controller's forms and returns the
// bound page. Forms absent from the markup are skipped entirely.
func (c *Controller) Bind(doc *Document) *Page {
	p := &Page{c: c, doc: doc, bound: make(map[string]bool)}
	for id := range c.forms {
		if doc.FormByID(id) != nil {
			p.bound[id] = true
		}
	}
	return p
}

// HasForm reports whether the page contains the named form.
func (p *Page) HasForm(formID string) bool {
	return p.bound[formID]
}

// Submit runs one validity pass for the named form, updates the page's error
// display state, and decides whether the submission proceeds. Forms the
// controller was not bound to are let through untouched.
func (p *Page) Submit(formID string, vals Values) (Outcome, Result) {
	if !p.bound[formID] {
		return OutcomeAccepted, Result{OK: true}
	}
	def := p.c.forms[formID]
	formNode := p.doc.FormByID(formID)
	present := func(field string) bool {
		return FindControl(formNode, field) != nil
	}

	res := def.Validate(vals, present)
	p.decorate(def, formNode, res)

	if !res.OK {
		return OutcomeBlocked, res
	}
	return OutcomeAccepted, res
}

// decorate applies the full error state in one pass: failing fields get their
// message shown, everything else is cleared. Re-running with the same result
// yields the same display state.
func (p *Page) decorate(def FormDef, formNode *html.Node, res Result) {
	seenFields := make(map[string]bool)
	seenBanners := make(map[string]bool)

	for _, r := range def.Rules {
		if r.Banner != "" {
			if seenBanners[r.Banner] {
				continue
			}
			seenBanners[r.Banner] = true
			banner := p.doc.ElementByID(r.Banner)
			if msg, bad := res.BannerErrors[r.Banner]; bad {
				ShowBanner(banner, msg)
			} else {
				ClearBanner(banner)
			}
			continue
		}

		if seenFields[r.Field] {
			continue
		}
		seenFields[r.Field] = true
		control := FindControl(formNode, r.Field)
		if msg, bad := res.FieldErrors[r.Field]; bad {
			ShowError(control, msg)
		} else {
			ClearError(control)
		}
	}
}

// ClickAnchor handles an in-page anchor click. It reports whether the click
// was intercepted: true means default navigation is suppressed and a smooth
// scroll to the target was requested. A bare "#" or a missing target is left
// to the browser.
func (p *Page) ClickAnchor(href string) bool {
	if !strings.HasPrefix(href, "#") || href == "#" {
		return false
	}
	id := strings.TrimPrefix(href, "#")
	if p.doc.ElementByID(id) == nil {
		return false
	}
	p.c.scroller.ScrollTo(id)
	return true
}

// SubmitCancel guards a cancellation form behind an interactive confirmation.
// It reports whether the submission may proceed. Forms that already declare
// an inline confirmation are never double-guarded.
func (p *Page) SubmitCancel(formID string) bool {
	formNode := p.doc.FormByID(formID)
	if formNode == nil {
		return true
	}
	if !isCancelAction(attr(formNode, "action")) {
		return true
	}
	if hasAttr(formNode, "onsubmit") || hasAttr(formNode, "data-confirm") {
		return true
	}
	return p.c.confirmer.Confirm(CancelConfirmPrompt)
}

func isCancelAction(action string) bool {
	return strings.Contains(action, "/cancel")
}
