package forms

import (
	"strings"
	"testing"
)

const contactPage = `<html><body>
<form id="contact-form" action="/contact" method="post">
  <input type="text" name="name">
  <span class="error-message" style="display: none;"></span>
  <input type="text" name="email">
  <span class="error-message" style="display: none;"></span>
  <input type="text" name="phone">
  <span class="error-message" style="display: none;"></span>
  <input type="text" name="subject">
  <span class="error-message" style="display: none;"></span>
  <textarea name="message"></textarea>
  <span class="error-message" style="display: none;"></span>
  <button type="submit">Send</button>
</form>
<a href="#section2">Jump</a>
<div id="section2">Section two</div>
</body></html>`

const bookPage = `<html><body>
<form id="book-appointment-form" action="/book" method="post">
  <select name="doctor_id"><option value="0">-- Select a doctor --</option><option value="7">Dr. Smith</option></select>
  <span class="error-message" style="display: none;"></span>
  <input type="date" name="appointment_date">
  <span class="error-message" style="display: none;"></span>
  <input type="hidden" name="appointment_time">
  <input type="text" name="reason_for_visit">
  <span class="error-message" style="display: none;"></span>
  <div id="time-slot-error" style="display: none;"></div>
</form>
</body></html>`

const loginRegisterPage = `<html><body>
<form id="login-form" action="/login" method="post">
  <input type="text" name="username">
  <span class="error-message" style="display: none;"></span>
  <input type="password" name="password">
  <span class="error-message" style="display: none;"></span>
</form>
<form id="register-form" action="/register" method="post">
  <input type="text" name="username">
  <span class="error-message" style="display: none;"></span>
  <input type="password" name="password">
  <span class="error-message" style="display: none;"></span>
  <input type="password" name="confirm_password">
  <span class="error-message" style="display: none;"></span>
</form>
</body></html>`

const cancelPage = `<html><body>
<form id="cancel-form" action="/appointment/42/cancel" method="post">
  <button type="submit">Cancel appointment</button>
</form>
<form id="inline-cancel-form" action="/appointment/43/cancel" method="post" onsubmit="return confirm('sure?')">
  <button type="submit">Cancel appointment</button>
</form>
<form id="notes-form" action="/appointment/42/notes" method="post">
  <textarea name="notes"></textarea>
</form>
</body></html>`

type recordingScroller struct {
	targets []string
}

func (r *recordingScroller) ScrollTo(id string) { r.targets = append(r.targets, id) }

type scriptedConfirmer struct {
	answer  bool
	prompts []string
}

func (c *scriptedConfirmer) Confirm(prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

func mustParse(t *testing.T, page string) *Document {
	t.Helper()
	doc, err := ParseDocumentString(page)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	return doc
}

func TestContactSubmitAllErrorsShownAtOnce(t *testing.T) {
	doc := mustParse(t, contactPage)
	page := NewController(nil, nil).Bind(doc)

	outcome, res := page.Submit(ContactFormID, MapValues{
		"name":    "",
		"email":   "not-an-email",
		"phone":   "",
		"subject": "",
		"message": "",
	})

	if outcome != OutcomeBlocked {
		t.Fatal("expected submission to be blocked")
	}
	for _, field := range []string{"name", "email", "subject", "message"} {
		if _, ok := res.FieldErrors[field]; !ok {
			t.Errorf("expected error on %s, got %v", field, res.FieldErrors)
		}
	}
	if len(res.FieldErrors) != 4 {
		t.Errorf("expected exactly 4 errors, got %v", res.FieldErrors)
	}

	form := doc.FormByID(ContactFormID)
	email := FindControl(form, "email")
	if !hasClass(email, InvalidClass) {
		t.Error("email control should carry the invalid class")
	}
	msg := nextElementSibling(email)
	if !isVisible(msg) || !strings.Contains(text(msg), "valid email") {
		t.Errorf("email error element not shown, text %q", text(msg))
	}
}

func TestContactSubmitValidClearsAndAccepts(t *testing.T) {
	doc := mustParse(t, contactPage)
	page := NewController(nil, nil).Bind(doc)

	// First pass leaves errors behind; the valid pass must clear them.
	page.Submit(ContactFormID, MapValues{})

	outcome, res := page.Submit(ContactFormID, MapValues{
		"name":    "Jane Roe",
		"email":   "jane@example.com",
		"phone":   "937-896-2713",
		"subject": "Billing",
		"message": "Question about my invoice.",
	})

	if outcome != OutcomeAccepted || !res.OK {
		t.Fatalf("expected acceptance, got %v %v", outcome, res)
	}
	form := doc.FormByID(ContactFormID)
	for _, field := range []string{"name", "email", "phone", "subject", "message"} {
		control := FindControl(form, field)
		if hasClass(control, InvalidClass) {
			t.Errorf("%s still marked invalid after valid pass", field)
		}
		if isVisible(nextElementSibling(control)) {
			t.Errorf("%s error element still visible after valid pass", field)
		}
	}
}

func TestContactOptionalPhoneCheckedWhenPresent(t *testing.T) {
	doc := mustParse(t, contactPage)
	page := NewController(nil, nil).Bind(doc)

	_, res := page.Submit(ContactFormID, MapValues{
		"name":    "Jane Roe",
		"email":   "jane@example.com",
		"phone":   "12345",
		"subject": "Billing",
		"message": "Hello.",
	})

	if res.OK {
		t.Fatal("5-digit phone should fail when provided")
	}
	if _, ok := res.FieldErrors["phone"]; !ok {
		t.Errorf("expected phone error, got %v", res.FieldErrors)
	}
}

func TestRegisterShowsLengthAndMismatchTogether(t *testing.T) {
	doc := mustParse(t, loginRegisterPage)
	page := NewController(nil, nil).Bind(doc)

	outcome, res := page.Submit(RegisterFormID, MapValues{
		"username":         "doc",
		"password":         "short",
		"confirm_password": "different",
	})

	if outcome != OutcomeBlocked {
		t.Fatal("expected blocked submission")
	}
	if msg := res.FieldErrors["password"]; !strings.Contains(msg, "at least 8") {
		t.Errorf("expected length error on password, got %q", msg)
	}
	if msg := res.FieldErrors["confirm_password"]; !strings.Contains(msg, "match") {
		t.Errorf("expected mismatch error on confirm_password, got %q", msg)
	}
}

func TestLoginPresenceOnly(t *testing.T) {
	doc := mustParse(t, loginRegisterPage)
	page := NewController(nil, nil).Bind(doc)

	_, res := page.Submit(LoginFormID, MapValues{"username": "  ", "password": ""})
	if res.OK {
		t.Fatal("blank credentials should block")
	}

	outcome, _ := page.Submit(LoginFormID, MapValues{"username": "pat", "password": "x"})
	if outcome != OutcomeAccepted {
		t.Fatal("any non-blank credentials pass the client check")
	}
}

func TestBookFormSentinelDoctorBlocks(t *testing.T) {
	doc := mustParse(t, bookPage)
	page := NewController(nil, nil).Bind(doc)

	outcome, res := page.Submit(BookFormID, MapValues{
		"doctor_id":        "0",
		"appointment_date": "2026-09-10",
		"appointment_time": "09:00",
		"reason_for_visit": "Checkup",
	})

	if outcome != OutcomeBlocked {
		t.Fatal("sentinel doctor value must block submission")
	}
	if msg := res.FieldErrors["doctor_id"]; msg != "Please select a doctor." {
		t.Errorf("unexpected doctor error %q", msg)
	}

	outcome, _ = page.Submit(BookFormID, MapValues{
		"doctor_id":        "7",
		"appointment_date": "2026-09-10",
		"appointment_time": "09:00",
		"reason_for_visit": "Checkup",
	})
	if outcome != OutcomeAccepted {
		t.Fatal("valid booking values must pass")
	}
}

func TestBookFormTimeSlotUsesSharedBanner(t *testing.T) {
	doc := mustParse(t, bookPage)
	page := NewController(nil, nil).Bind(doc)

	_, res := page.Submit(BookFormID, MapValues{
		"doctor_id":        "7",
		"appointment_date": "2026-09-10",
		"appointment_time": "",
		"reason_for_visit": "Checkup",
	})

	if msg := res.BannerErrors[TimeSlotBannerID]; msg != "Please select a time." {
		t.Fatalf("expected banner error, got %v", res.BannerErrors)
	}
	banner := doc.ElementByID(TimeSlotBannerID)
	if !isVisible(banner) || text(banner) != "Please select a time." {
		t.Errorf("banner not shown, text %q", text(banner))
	}

	// The valid pass hides it again.
	page.Submit(BookFormID, MapValues{
		"doctor_id":        "7",
		"appointment_date": "2026-09-10",
		"appointment_time": "09:00",
		"reason_for_visit": "Checkup",
	})
	if isVisible(doc.ElementByID(TimeSlotBannerID)) {
		t.Error("banner should be hidden after valid pass")
	}
}

func TestMissingRequiredControlForcesInvalid(t *testing.T) {
	// Page whose book form lost its date input: the required control cannot
	// be found, so the validator fails defensively.
	page := strings.Replace(bookPage, `<input type="date" name="appointment_date">`, "", 1)
	doc := mustParse(t, page)
	bound := NewController(nil, nil).Bind(doc)

	outcome, res := bound.Submit(BookFormID, MapValues{
		"doctor_id":        "7",
		"appointment_date": "2026-09-10",
		"appointment_time": "09:00",
		"reason_for_visit": "Checkup",
	})
	if outcome != OutcomeBlocked {
		t.Fatal("missing required control should force invalid")
	}
	if _, ok := res.FieldErrors["appointment_date"]; !ok {
		t.Errorf("expected defensive error on appointment_date, got %v", res.FieldErrors)
	}
}

func TestMissingOptionalControlIsSkipped(t *testing.T) {
	page := strings.Replace(contactPage, `<input type="text" name="phone">`, "", 1)
	doc := mustParse(t, page)
	bound := NewController(nil, nil).Bind(doc)

	outcome, _ := bound.Submit(ContactFormID, MapValues{
		"name":    "Jane",
		"email":   "jane@example.com",
		"subject": "Hi",
		"message": "There",
	})
	if outcome != OutcomeAccepted {
		t.Fatal("optional control missing from the page must not force failure")
	}
}

func TestUnknownFormPassesThrough(t *testing.T) {
	doc := mustParse(t, contactPage)
	page := NewController(nil, nil).Bind(doc)

	outcome, _ := page.Submit("search-form", MapValues{})
	if outcome != OutcomeAccepted {
		t.Fatal("forms the controller does not know must pass through")
	}
}

func TestDecorationIsIdempotent(t *testing.T) {
	doc := mustParse(t, contactPage)
	page := NewController(nil, nil).Bind(doc)
	vals := MapValues{"email": "bad"}

	page.Submit(ContactFormID, vals)
	form := doc.FormByID(ContactFormID)
	email := FindControl(form, "email")
	class1 := attr(email, "class")
	text1 := text(nextElementSibling(email))

	page.Submit(ContactFormID, vals)
	if attr(email, "class") != class1 {
		t.Errorf("class changed across identical passes: %q vs %q", class1, attr(email, "class"))
	}
	if text(nextElementSibling(email)) != text1 {
		t.Error("error text changed across identical passes")
	}
}

func TestAnchorClickScrollsToTarget(t *testing.T) {
	doc := mustParse(t, contactPage)
	scroller := &recordingScroller{}
	page := NewController(scroller, nil).Bind(doc)

	if !page.ClickAnchor("#section2") {
		t.Fatal("anchor with an existing target must be intercepted")
	}
	if len(scroller.targets) != 1 || scroller.targets[0] != "section2" {
		t.Errorf("unexpected scroll calls: %v", scroller.targets)
	}
}

func TestBareAnchorAndMissingTargetNotIntercepted(t *testing.T) {
	doc := mustParse(t, contactPage)
	scroller := &recordingScroller{}
	page := NewController(scroller, nil).Bind(doc)

	if page.ClickAnchor("#") {
		t.Error("bare # must not be intercepted")
	}
	if page.ClickAnchor("#nowhere") {
		t.Error("missing target must not be intercepted")
	}
	if page.ClickAnchor("/doctors") {
		t.Error("off-page links must not be intercepted")
	}
	if len(scroller.targets) != 0 {
		t.Errorf("no scrolls expected, got %v", scroller.targets)
	}
}

func TestCancelFormGuard(t *testing.T) {
	doc := mustParse(t, cancelPage)
	decliner := &scriptedConfirmer{answer: false}
	page := NewController(nil, decliner).Bind(doc)

	if page.SubmitCancel("cancel-form") {
		t.Fatal("declined confirmation must block submission")
	}
	if len(decliner.prompts) != 1 || decliner.prompts[0] != CancelConfirmPrompt {
		t.Errorf("unexpected prompts: %v", decliner.prompts)
	}

	accepter := &scriptedConfirmer{answer: true}
	page = NewController(nil, accepter).Bind(doc)
	if !page.SubmitCancel("cancel-form") {
		t.Fatal("accepted confirmation must allow submission")
	}
}

func TestCancelGuardSkipsInlineConfirmationAndNonCancelForms(t *testing.T) {
	doc := mustParse(t, cancelPage)
	confirmer := &scriptedConfirmer{answer: false}
	page := NewController(nil, confirmer).Bind(doc)

	if !page.SubmitCancel("inline-cancel-form") {
		t.Error("form with inline confirmation must not be double-guarded")
	}
	if !page.SubmitCancel("notes-form") {
		t.Error("non-cancel form must not be guarded")
	}
	if len(confirmer.prompts) != 0 {
		t.Errorf("confirmer should not have been asked, got %v", confirmer.prompts)
	}
}

func TestBindRecordsPresentForms(t *testing.T) {
	doc := mustParse(t, loginRegisterPage)
	page := NewController(nil, nil).Bind(doc)

	if !page.HasForm(LoginFormID) || !page.HasForm(RegisterFormID) {
		t.Error("login and register forms should be bound")
	}
	if page.HasForm(ContactFormID) {
		t.Error("contact form is not on this page")
	}
}
