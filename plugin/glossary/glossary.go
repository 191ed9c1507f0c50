// Package glossary searches the term cards of the glossary page.
package glossary

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"

	"github.com/hrygo/folio/plugin/page"
)

// AllSections disables the section filter.
const AllSections = "all"

// Term is one glossary entry.
type Term struct {
	Term    string `json:"term"`
	Desc    string `json:"desc"`
	Section string `json:"section"`
}

// FromDocument collects the term cards of doc in document order. A term card
// is an element with class term-card carrying data-term, data-desc and
// data-section attributes.
func FromDocument(doc *page.HTMLDocument) []Term {
	var terms []Term
	doc.Walk(func(n *html.Node) {
		if !page.HasClass(n, "term-card") {
			return
		}
		t, _ := page.Attr(n, "data-term")
		d, _ := page.Attr(n, "data-desc")
		s, _ := page.Attr(n, "data-section")
		terms = append(terms, Term{Term: t, Desc: d, Section: s})
	})
	return terms
}

// Query is a search over terms.
type Query struct {
	Text string
	// Section limits results to one section. Empty or AllSections means every
	// section. Sections match exactly.
	Section string
}

func (q Query) section() string {
	if q.Section == "" {
		return AllSections
	}
	return q.Section
}

// Result is the outcome of a search.
type Result struct {
	Shown   []Term `json:"shown"`
	Hidden  int    `json:"hidden"`
	Summary string `json:"summary"`
}

// NoResults reports whether nothing matched.
func (r Result) NoResults() bool {
	return len(r.Shown) == 0
}

func normalize(s string) string {
	return strings.TrimSpace(cases.Fold().String(s))
}

// Match reports whether t is shown for q.
func Match(t Term, q Query) bool {
	if s := q.section(); s != AllSections && t.Section != s {
		return false
	}
	text := normalize(q.Text)
	if text == "" {
		return true
	}
	hay := normalize(t.Term) + " " + normalize(t.Desc) + " " + normalize(t.Section)
	return strings.Contains(hay, text)
}

// Search filters terms by q, keeping their order.
func Search(terms []Term, q Query) Result {
	shown := make([]Term, 0, len(terms))
	for _, t := range terms {
		if Match(t, q) {
			shown = append(shown, t)
		}
	}
	return Result{
		Shown:   shown,
		Hidden:  len(terms) - len(shown),
		Summary: Summary(len(shown), q.section()),
	}
}

// Summary formats the result count line, e.g. "3 terms shown • Filter: azure".
func Summary(shown int, section string) string {
	plural := "s"
	if shown == 1 {
		plural = ""
	}
	out := fmt.Sprintf("%d term%s shown", shown, plural)
	if section != "" && section != AllSections {
		out += " • Filter: " + section
	}
	return out
}

// Sections returns the distinct sections of terms in first-seen order.
func Sections(terms []Term) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range terms {
		if t.Section == "" || seen[t.Section] {
			continue
		}
		seen[t.Section] = true
		out = append(out, t.Section)
	}
	return out
}
