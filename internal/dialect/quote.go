package dialect

import (
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-blogmark/internal/mdast"
)

type metaKind int

const (
	metaNone metaKind = iota
	metaLang
	metaURL
	metaISBN
)

// classifyMeta tells what a citation token is. The first matching kind
// wins: language code, absolute URL, ISBN.
func classifyMeta(tok string) metaKind {
	switch {
	case isLangCode(tok):
		return metaLang
	case absoluteURL.MatchString(tok):
		return metaURL
	case looksLikeISBN(tok):
		return metaISBN
	}
	return metaNone
}

func isLangCode(s string) bool {
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'z' && s[1] >= 'a' && s[1] <= 'z'
}

// addMeta records one classified token. Only the first token of each kind
// counts.
func addMeta(m *mdast.QuoteMeta, kind metaKind, tok string) {
	switch kind {
	case metaLang:
		if m.Lang == "" {
			m.Lang = tok
		}
	case metaURL:
		if m.CiteURL == "" {
			m.CiteURL = tok
		}
	case metaISBN:
		if m.ISBN == nil {
			m.ISBN = &mdast.ISBN{Value: tok, Valid: ValidISBN(tok)}
		}
	}
}

// finishMeta applies the URL-over-ISBN rule.
func finishMeta(m *mdast.QuoteMeta) {
	if m.CiteURL != "" {
		m.ISBN = nil
	}
}

// parseQuoteMeta classifies the tokens of a {{...}}(...) parenthetical.
// It fails unless every token classifies.
func parseQuoteMeta(s string) (mdast.QuoteMeta, bool) {
	var m mdast.QuoteMeta
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return m, false
	}
	for _, tok := range tokens {
		kind := classifyMeta(tok)
		if kind == metaNone {
			return mdast.QuoteMeta{}, false
		}
		addMeta(&m, kind, tok)
	}
	finishMeta(&m)
	return m, true
}

// subText cuts t.Literal[from:to] into a new Text node. Quotes never
// span lines, so columns shift within the start line.
func subText(t *mdast.Node, from, to int) *mdast.Node {
	s := t.Literal
	pos := t.Pos
	pos.Start.Offset += from
	pos.Start.Column += utf8.RuneCountInString(s[:from])
	pos.End = pos.Start
	pos.End.Offset += to - from
	pos.End.Column += utf8.RuneCountInString(s[from:to])
	return mdast.NewText(s[from:to], pos)
}

// quoteMeta consumes a "(meta)" parenthetical starting at s[at] and
// returns the offset just past it.
func quoteMeta(q *mdast.Node, s string, at int) int {
	if at >= len(s) || s[at] != '(' {
		return at
	}
	closeIdx := strings.IndexByte(s[at:], ')')
	if closeIdx <= 0 {
		return at
	}
	meta, ok := parseQuoteMeta(s[at+1 : at+closeIdx])
	if !ok {
		return at
	}
	q.QuoteLang, q.CiteURL, q.ISBN = meta.Lang, meta.CiteURL, meta.ISBN
	return at + closeIdx + 1
}

// splitQuotes rewrites {{text}} and {{text}}(meta) inside one Text node.
// Nodes without a complete quote are returned unchanged.
func splitQuotes(t *mdast.Node) []*mdast.Node {
	s := t.Literal
	if !strings.Contains(s, "{{") {
		return []*mdast.Node{t}
	}
	var out []*mdast.Node
	last := 0
	for i := 0; i < len(s); {
		open := strings.Index(s[i:], "{{")
		if open < 0 {
			break
		}
		open += i
		end := strings.Index(s[open+2:], "}}")
		if end < 0 {
			break
		}
		end += open + 2
		inner := s[open+2 : end]
		if strings.TrimSpace(inner) == "" || strings.Contains(inner, "\n") {
			i = open + 2
			continue
		}
		q := &mdast.Node{Kind: mdast.Quote}
		q.Append(subText(t, open+2, end))
		next := quoteMeta(q, s, end+2)
		if open > last {
			out = append(out, subText(t, last, open))
		}
		q.Pos = subText(t, open, next).Pos
		out = append(out, q)
		last, i = next, next
	}
	if out == nil {
		return []*mdast.Node{t}
	}
	if last < len(s) {
		out = append(out, subText(t, last, len(s)))
	}
	return out
}

// joinQuotes matches a "{{" left open at the end of one Text node with
// the first "}}" in a later sibling Text, so quotes may hold inline
// markup such as {{*a*}}. The quote must stay on one line.
func joinQuotes(nodes []*mdast.Node) ([]*mdast.Node, bool) {
	joined := false
	for i := 0; i < len(nodes); i++ {
		t := nodes[i]
		if t.Kind != mdast.Text {
			continue
		}
		open := strings.LastIndex(t.Literal, "{{")
		if open < 0 || strings.Contains(t.Literal[open:], "}}") || strings.Contains(t.Literal[open:], "\n") {
			continue
		}
		j, end := closingBraces(nodes, i+1)
		if j < 0 {
			continue
		}
		closing := nodes[j]
		q := &mdast.Node{Kind: mdast.Quote}
		if open+2 < len(t.Literal) {
			q.Append(subText(t, open+2, len(t.Literal)))
		}
		q.Append(nodes[i+1 : j]...)
		if end > 0 {
			q.Append(subText(closing, 0, end))
		}
		text := mdast.PlainText(q)
		start := subText(t, open, open).Pos.Start
		if strings.TrimSpace(text) == "" || strings.Contains(text, "\n") ||
			!closing.Pos.IsZero() && !t.Pos.IsZero() && closing.Pos.Start.Line != start.Line {
			continue
		}
		next := quoteMeta(q, closing.Literal, end+2)
		q.Pos = mdast.Position{Start: start, End: subText(closing, next, next).Pos.End}

		var repl []*mdast.Node
		if open > 0 {
			repl = append(repl, subText(t, 0, open))
		}
		repl = append(repl, q)
		if next < len(closing.Literal) {
			repl = append(repl, splitQuotes(subText(closing, next, len(closing.Literal)))...)
		}
		rest := append(repl, nodes[j+1:]...)
		nodes = append(nodes[:i:i], rest...)
		joined = true
		if open > 0 {
			i++
		}
	}
	return nodes, joined
}

// closingBraces finds the first "}}" in a Text node at or after from. It
// gives up at a line break.
func closingBraces(nodes []*mdast.Node, from int) (idx, offset int) {
	for j := from; j < len(nodes); j++ {
		n := nodes[j]
		switch n.Kind {
		case mdast.HardBreak:
			return -1, 0
		case mdast.Text:
			end := strings.Index(n.Literal, "}}")
			nl := strings.IndexByte(n.Literal, '\n')
			if end >= 0 && (nl < 0 || end < nl) {
				return j, end
			}
			if nl >= 0 {
				return -1, 0
			}
		}
	}
	return -1, 0
}
