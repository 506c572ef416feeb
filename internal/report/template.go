package report

import (
	"strings"
)

// TokenMap holds the values substituted into a report template, keyed
// by placeholder name without braces.
type TokenMap map[string]string

// RenderTemplate replaces every {name} placeholder whose name appears
// in tokens. The document is scanned once left to right and substituted
// values are never rescanned, so the result does not depend on map
// iteration order and token-shaped text inside a value stays literal.
// Unknown placeholders and unpaired braces pass through unchanged.
func RenderTemplate(doc string, tokens TokenMap) string {
	var b strings.Builder
	b.Grow(len(doc))

	i := 0
	for i < len(doc) {
		open := strings.IndexByte(doc[i:], '{')
		if open < 0 {
			b.WriteString(doc[i:])
			break
		}
		open += i

		end := strings.IndexByte(doc[open+1:], '}')
		if end < 0 {
			b.WriteString(doc[i:])
			break
		}
		end += open + 1

		value, ok := tokens[doc[open+1:end]]
		if !ok {
			// Not a known token; emit up to and including the brace and
			// keep scanning right after it.
			b.WriteString(doc[i : open+1])
			i = open + 1
			continue
		}

		b.WriteString(doc[i:open])
		b.WriteString(value)
		i = end + 1
	}

	return b.String()
}
