package forms

import "golang.org/x/net/html"

// Class markers shared with the page templates. The error message element is
// always the field's next element sibling carrying ErrorMessageClass; it is
// located structurally, never by id.
const (
	InvalidClass      = "is-invalid"
	ErrorMessageClass = "error-message"
)

// ShowError marks the field invalid and reveals its adjacent error message
// element with the given text. A nil field is a no-op; a field without an
// adjacent message element still receives the invalid mark, the message is
// simply not shown.
func ShowError(field *html.Node, message string) {
	if field == nil {
		return
	}
	addClass(field, InvalidClass)
	if msg := errorElementFor(field); msg != nil {
		setText(msg, message)
		setDisplay(msg, true)
	}
}

// ClearError removes the invalid mark and hides the adjacent error message
// element if one exists. Safe on nil fields.
func ClearError(field *html.Node) {
	if field == nil {
		return
	}
	removeClass(field, InvalidClass)
	if msg := errorElementFor(field); msg != nil {
		setDisplay(msg, false)
	}
}

// ShowBanner reveals a shared error banner element with the given text.
// Used where several controls report into one message area (time slots).
func ShowBanner(banner *html.Node, message string) {
	if banner == nil {
		return
	}
	setText(banner, message)
	setDisplay(banner, true)
}

// ClearBanner hides a shared error banner element.
func ClearBanner(banner *html.Node) {
	if banner == nil {
		return
	}
	setDisplay(banner, false)
}

func errorElementFor(field *html.Node) *html.Node {
	sib := nextElementSibling(field)
	if sib != nil && hasClass(sib, ErrorMessageClass) {
		return sib
	}
	return nil
}
