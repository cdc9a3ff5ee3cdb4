package forms

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document wraps a parsed HTML page. The controller only ever mutates display
// state (classes, error text, visibility); structure is owned by the
// rendering layer.
type Document struct {
	root *html.Node
}

// ParseDocument parses an HTML page into a Document.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// ParseDocumentString is a convenience wrapper for tests and template output.
func ParseDocumentString(s string) (*Document, error) {
	return ParseDocument(strings.NewReader(s))
}

// Render serializes the document, including any error decorations applied.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// ElementByID returns the element with the given id, or nil.
func (d *Document) ElementByID(id string) *html.Node {
	if d == nil || id == "" {
		return nil
	}
	return findElement(d.root, func(n *html.Node) bool {
		return attr(n, "id") == id
	})
}

// FormByID returns the form element with the given id, or nil.
func (d *Document) FormByID(id string) *html.Node {
	if d == nil || id == "" {
		return nil
	}
	return findElement(d.root, func(n *html.Node) bool {
		return n.Data == "form" && attr(n, "id") == id
	})
}

// FindControl returns the input, select, or textarea with the given name
// inside the form, or nil.
func FindControl(form *html.Node, name string) *html.Node {
	if form == nil || name == "" {
		return nil
	}
	return findElement(form, func(n *html.Node) bool {
		switch n.Data {
		case "input", "select", "textarea":
			return attr(n, "name") == name
		}
		return false
	})
}

func findElement(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	if root.Type == html.ElementNode && match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

// nextElementSibling skips text and comment nodes between elements.
func nextElementSibling(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	if n == nil {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasAttr(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if n == nil || hasClass(n, class) {
		return
	}
	existing := attr(n, "class")
	if existing == "" {
		setAttr(n, "class", class)
		return
	}
	setAttr(n, "class", existing+" "+class)
}

func removeClass(n *html.Node, class string) {
	if n == nil || !hasClass(n, class) {
		return
	}
	fields := strings.Fields(attr(n, "class"))
	kept := fields[:0]
	for _, c := range fields {
		if c != class {
			kept = append(kept, c)
		}
	}
	setAttr(n, "class", strings.Join(kept, " "))
}

// setText replaces the node's children with a single text node.
func setText(n *html.Node, text string) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// text returns the concatenated text content of the node.
func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func setDisplay(n *html.Node, visible bool) {
	if n == nil {
		return
	}
	if visible {
		setAttr(n, "style", "display: block;")
	} else {
		setAttr(n, "style", "display: none;")
	}
}

func isVisible(n *html.Node) bool {
	return n != nil && !strings.Contains(attr(n, "style"), "display: none")
}
