package parser

import (
	"strings"
	"unicode"
)

// SnakeCase lowercases s and collapses every run of non-alphanumeric runes into a single
// underscore, trimming underscores at both ends: "Node.js" -> "node_js".
func SnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pending := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}

	return b.String()
}
