package render

import "strings"

var (
	textReplacer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
	attrReplacer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
		"`", "&#096;",
	)
)

// EscapeText escapes s for an HTML text position.
func EscapeText(s string) string {
	return textReplacer.Replace(s)
}

// EscapeAttr escapes s for a quoted HTML attribute value. Backticks are
// escaped as well.
func EscapeAttr(s string) string {
	return attrReplacer.Replace(s)
}
