// Package render turns content items into card markup.
//
// Rendering is pure: the same items and options always produce the same
// fragments, and malformed items render with blank sections instead of
// failing.
package render

import (
	"fmt"
	"strings"

	"github.com/lithammer/shortuuid/v4"

	perrors "github.com/hrygo/folio/internal/errors"
)

// Kind is a content category.
type Kind string

const (
	KindProject Kind = "project"
	KindSnippet Kind = "snippet"
	KindLab     Kind = "lab"
)

// ParseKind validates s.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindProject, KindSnippet, KindLab:
		return k, nil
	default:
		return "", perrors.InvalidArgument(fmt.Sprintf("unknown content kind: %q", s))
	}
}

// ErrorHeading returns the default heading of the error fragment for k.
func (k Kind) ErrorHeading() string {
	switch k {
	case KindProject:
		return "Projects failed to load."
	case KindLab:
		return "Labs failed to load."
	default:
		return "Snippets failed to load."
	}
}

// Options parameterizes rendering of a page.
type Options struct {
	// CodeLang is the highlighting language of code blocks without their own.
	CodeLang string
	// Markdown renders descriptions as Markdown instead of plain text.
	Markdown bool
	// MaxTags limits the tags shown on a project card. Zero means 4.
	MaxTags int
}

func (o Options) maxTags() int {
	if o.MaxTags <= 0 {
		return 4
	}
	return o.MaxTags
}

func (o Options) codeLang() string {
	if isBlank(o.CodeLang) {
		return "none"
	}
	return strings.TrimSpace(o.CodeLang)
}

// Card is a typed content item that can render itself.
type Card interface {
	Fragment(opts Options) Fragment
}

// Decode converts the index-th element of a content array into its typed card.
func Decode(kind Kind, index int, v any) (Card, error) {
	it := ItemFrom(v)
	switch kind {
	case KindProject:
		return NewProject(index, it), nil
	case KindSnippet:
		return NewSnippet(index, it), nil
	case KindLab:
		return NewLab(index, it), nil
	default:
		return nil, perrors.InvalidArgument(fmt.Sprintf("unknown content kind: %q", kind))
	}
}

// Render renders every element in order. The i-th fragment belongs to the
// i-th element.
func Render(kind Kind, items []any, opts Options) ([]Fragment, error) {
	out := make([]Fragment, 0, len(items))
	for i, v := range items {
		card, err := Decode(kind, i, v)
		if err != nil {
			return nil, err
		}
		out = append(out, card.Fragment(opts))
	}
	return out, nil
}

// Join concatenates fragments in order.
func Join(frags []Fragment) Fragment {
	var b Builder
	for _, f := range frags {
		b.Fragment(f)
	}
	return b.Build()
}

// ErrorFragment renders the uniform failure card.
func ErrorFragment(heading, message string) Fragment {
	var b Builder
	b.Open("div", A("class", "col-12"))
	b.Open("div", A("class", "card-soft p-4"), A("role", "alert"))
	b.Element("div", heading, A("class", "section-title mb-2"))
	b.Element("div", message, A("class", "text-muted small mono"))
	b.Close("div")
	b.Close("div")
	return b.Build()
}

// anchorID derives a stable element id for a card.
func anchorID(kind Kind, index int, title string) string {
	return "card-" + shortuuid.NewWithNamespace(fmt.Sprintf("folio:%s:%d:%s", kind, index, title))
}

func writeDescription(b *Builder, text string, opts Options) {
	if opts.Markdown && !isBlank(text) {
		b.Open("div", A("class", "project-desc"))
		b.Fragment(Markdown(text))
		b.Close("div")
		return
	}
	b.Element("div", text, A("class", "project-desc"))
}

func writeInProgress(b *Builder) {
	b.Element("span", "In progress", A("class", "status-pill"), A("role", "status"))
}

func writeCopyButton(b *Builder, code string) {
	b.Open("div", A("class", "d-flex justify-content-center mb-2"))
	b.Open("button", A("class", "btn btn-sm btn-card"), A("type", "button"), A("data-copy", code))
	b.Open("i", A("class", "bi bi-clipboard me-1")).Close("i")
	b.Text("Copy")
	b.Close("button")
	b.Close("div")
}

func writeCode(b *Builder, code, lang string) {
	b.Open("pre", A("class", "m-0"))
	b.Element("code", code, A("class", "language-"+lang))
	b.Close("pre")
}
