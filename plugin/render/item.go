package render

import (
	"strconv"
	"strings"
)

// Item is one decoded content record. Every field is optional.
type Item map[string]any

// ItemFrom converts one decoded array element. Anything that is not a JSON
// object becomes an empty item.
func ItemFrom(v any) Item {
	if m, ok := v.(map[string]any); ok {
		return Item(m)
	}
	return Item{}
}

// String returns field as text. Numbers and booleans are formatted; missing,
// null and composite values yield "".
func (it Item) String(field string) string {
	return scalarString(it[field])
}

// First returns the first non-blank of the given fields.
func (it Item) First(fields ...string) string {
	for _, f := range fields {
		if s := it.String(f); !isBlank(s) {
			return s
		}
	}
	return ""
}

// Strings returns field as a list of texts. Non-scalar elements are skipped;
// a scalar field is not promoted to a list.
func (it Item) Strings(field string) []string {
	list, ok := it[field].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		switch v.(type) {
		case string, float64, bool, int, int64:
			out = append(out, scalarString(v))
		}
	}
	return out
}

// URL returns field if it holds a non-blank value, trimmed.
func (it Item) URL(field string) (string, bool) {
	s := strings.TrimSpace(it.String(field))
	return s, s != ""
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	// int and int64 only occur in items built in Go, not decoded JSON.
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
