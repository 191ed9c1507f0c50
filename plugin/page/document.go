package page

import (
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/hrygo/folio/plugin/render"
)

// Container is the element a page renders its cards into.
type Container interface {
	// SetHTML replaces the children of the container with f.
	SetHTML(f render.Fragment) error
}

// Document locates containers by element id.
type Document interface {
	Container(id string) (Container, bool)
}

// HTMLDocument is a parsed HTML page. It is not safe for concurrent use;
// pages loaded concurrently each need their own document.
type HTMLDocument struct {
	root *html.Node
}

// ParseHTML parses a complete HTML page.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse html document")
	}
	return &HTMLDocument{root: root}, nil
}

// Container returns the element with the given id.
func (d *HTMLDocument) Container(id string) (Container, bool) {
	n := findByID(d.root, id)
	if n == nil {
		return nil, false
	}
	return &htmlContainer{node: n}, true
}

// InnerHTML renders the children of the element with the given id.
func (d *HTMLDocument) InnerHTML(id string) (string, bool) {
	n := findByID(d.root, id)
	if n == nil {
		return "", false
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", false
		}
	}
	return buf.String(), true
}

// Render writes the whole document.
func (d *HTMLDocument) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Walk calls fn for every element node in document order.
func (d *HTMLDocument) Walk(fn func(n *html.Node)) {
	walk(d.root, fn)
}

type htmlContainer struct {
	node *html.Node
}

func (c *htmlContainer) SetHTML(f render.Fragment) error {
	nodes, err := html.ParseFragment(strings.NewReader(string(f)), c.node)
	if err != nil {
		return errors.Wrap(err, "failed to parse fragment")
	}
	for child := c.node.FirstChild; child != nil; {
		next := child.NextSibling
		c.node.RemoveChild(child)
		child = next
	}
	for _, n := range nodes {
		c.node.AppendChild(n)
	}
	return nil
}

// Attr returns the value of the named attribute of n.
func Attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether n carries class.
func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func findByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) {
		if found != nil {
			return
		}
		if v, ok := Attr(n, "id"); ok && v == id {
			found = n
		}
	})
	return found
}

func walk(n *html.Node, fn func(n *html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
