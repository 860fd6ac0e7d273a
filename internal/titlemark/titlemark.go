// Package titlemark compiles short strings such as entry titles. Only
// code spans are recognized; everything else is escaped text.
package titlemark

import (
	"strings"

	"golang.org/x/net/html"
)

// Mark escapes s and wraps every `...` pair in <code>. Pairs are matched
// left to right; an unmatched backtick stays a literal character.
func Mark(s string) string {
	escaped := html.EscapeString(s)
	var sb strings.Builder
	sb.Grow(len(escaped))
	for {
		open := strings.IndexByte(escaped, '`')
		if open < 0 {
			break
		}
		end := strings.IndexByte(escaped[open+1:], '`')
		if end < 0 {
			break
		}
		end += open + 1
		sb.WriteString(escaped[:open])
		sb.WriteString("<code>")
		sb.WriteString(escaped[open+1 : end])
		sb.WriteString("</code>")
		escaped = escaped[end+1:]
	}
	sb.WriteString(escaped)
	return sb.String()
}
