package dialect

import (
	"strings"

	"github.com/alnah/go-blogmark/internal/mdast"
)

// attributePrefix starts the citation line closing a blockquote.
const attributePrefix = "? "

func recognizeBlockquotes(c *compilation) {
	for _, tree := range c.trees() {
		for _, bq := range mdast.Find(tree, func(n *mdast.Node) bool { return n.Kind == mdast.Blockquote }) {
			markOmissions(bq)
			readAttributes(bq)
		}
	}
}

// markOmissions replaces every "~" line of the quote's paragraphs with an
// OmittedMarker, splitting the paragraph around it.
func markOmissions(bq *mdast.Node) {
	var out []*mdast.Node
	for _, child := range bq.Children {
		if child.Kind != mdast.Paragraph {
			out = append(out, child)
			continue
		}
		var piece [][]*mdast.Node
		for _, line := range mdast.SplitLines(child.Children) {
			if s, ok := mdast.LineText(line); !ok || strings.TrimSpace(s) != "~" {
				piece = append(piece, line)
				continue
			}
			if p := mdast.ParagraphFromLines(piece); p != nil {
				out = append(out, p)
			}
			piece = nil
			out = append(out, &mdast.Node{Kind: mdast.OmittedMarker, Pos: mdast.LinePosition(line)})
		}
		if p := mdast.ParagraphFromLines(piece); p != nil {
			out = append(out, p)
		}
	}
	bq.Children = out
}

// readAttributes consumes a trailing "? lang url isbn citation" line.
// Tokens are read left to right while they classify; the rest is the
// citation text.
func readAttributes(bq *mdast.Node) {
	if len(bq.Children) == 0 {
		return
	}
	last := bq.Children[len(bq.Children)-1]
	if last.Kind != mdast.Paragraph {
		return
	}
	lines := mdast.SplitLines(last.Children)
	s, ok := mdast.LineText(lines[len(lines)-1])
	if !ok || !strings.HasPrefix(s, attributePrefix) {
		return
	}

	var meta mdast.QuoteMeta
	tokens := strings.Fields(s[len(attributePrefix):])
	i := 0
	for ; i < len(tokens); i++ {
		kind := classifyMeta(tokens[i])
		if kind == metaNone {
			break
		}
		addMeta(&meta, kind, tokens[i])
	}
	finishMeta(&meta)
	if meta.ISBN != nil && !meta.ISBN.Valid {
		meta.ISBN = nil
	}

	bq.QuoteLang = meta.Lang
	bq.CiteURL = meta.CiteURL
	bq.ISBN = meta.ISBN
	bq.CiteText = strings.Join(tokens[i:], " ")

	if p := mdast.ParagraphFromLines(lines[:len(lines)-1]); p != nil {
		bq.Children[len(bq.Children)-1] = p
	} else {
		bq.Children = bq.Children[:len(bq.Children)-1]
	}
}
