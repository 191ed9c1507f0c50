package render

import "strings"

// Attr is an HTML attribute. Names are trusted constants; values are escaped.
type Attr struct {
	Name  string
	Value string
}

// A is shorthand for an Attr.
func A(name, value string) Attr {
	return Attr{Name: name, Value: value}
}

// Fragment is rendered markup. Fragments come from a Builder or from a trusted
// renderer such as Markdown, never from raw item fields.
type Fragment string

// Builder assembles a Fragment.
type Builder struct {
	sb strings.Builder
}

// Open writes a start tag.
func (b *Builder) Open(tag string, attrs ...Attr) *Builder {
	b.sb.WriteByte('<')
	b.sb.WriteString(tag)
	for _, a := range attrs {
		b.sb.WriteByte(' ')
		b.sb.WriteString(a.Name)
		b.sb.WriteString(`="`)
		b.sb.WriteString(EscapeAttr(a.Value))
		b.sb.WriteByte('"')
	}
	b.sb.WriteByte('>')
	return b
}

// Close writes an end tag.
func (b *Builder) Close(tag string) *Builder {
	b.sb.WriteString("</")
	b.sb.WriteString(tag)
	b.sb.WriteByte('>')
	return b
}

// Void writes an element without content, like img.
func (b *Builder) Void(tag string, attrs ...Attr) *Builder {
	return b.Open(tag, attrs...)
}

// Text writes escaped text.
func (b *Builder) Text(s string) *Builder {
	b.sb.WriteString(EscapeText(s))
	return b
}

// Element writes a complete element with escaped text content.
func (b *Builder) Element(tag, text string, attrs ...Attr) *Builder {
	return b.Open(tag, attrs...).Text(text).Close(tag)
}

// Fragment appends an already built fragment.
func (b *Builder) Fragment(f Fragment) *Builder {
	b.sb.WriteString(string(f))
	return b
}

// Build returns the assembled fragment.
func (b *Builder) Build() Fragment {
	return Fragment(b.sb.String())
}
