package baseline

import (
	"bytes"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-blogmark/internal/mdast"
)

// inlines converts the inline children of a block.
func (c *converter) inlines(parent gast.Node) []*mdast.Node {
	if segs := parent.Lines(); segs != nil && segs.Len() > 0 {
		c.cursor = segs.At(0).Start
	}
	return mdast.MergeText(c.inlineChildren(parent))
}

func (c *converter) inlineChildren(parent gast.Node) []*mdast.Node {
	var out []*mdast.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, c.inline(n)...)
	}
	return out
}

func (c *converter) inline(n gast.Node) []*mdast.Node {
	switch n := n.(type) {
	case *gast.Text:
		return c.text(n)
	case *gast.String:
		return []*mdast.Node{mdast.NewText(string(n.Value), c.lines.Span(c.cursor, c.cursor))}
	case *gast.CodeSpan:
		var sb strings.Builder
		for t := n.FirstChild(); t != nil; t = t.NextSibling() {
			if tx, ok := t.(*gast.Text); ok {
				sb.Write(tx.Segment.Value(c.src))
			}
		}
		out := &mdast.Node{Kind: mdast.Code, Literal: sb.String()}
		out.Pos = c.wrapSpan(n, "`", "`")
		return []*mdast.Node{out}
	case *gast.Emphasis:
		kind := mdast.Emphasis
		if n.Level >= 2 {
			kind = mdast.Strong
		}
		out := mdast.New(kind, mdast.MergeText(c.inlineChildren(n))...)
		if len(out.Children) > 0 && !out.Children[0].Pos.IsZero() {
			start := out.Children[0].Pos.Start.Offset - n.Level
			if start >= 0 && (c.src[start] == '*' || c.src[start] == '_') {
				out.Delim = c.src[start]
			} else {
				start = out.Children[0].Pos.Start.Offset
			}
			end := min(out.Children[len(out.Children)-1].Pos.End.Offset+n.Level, len(c.src))
			out.Pos = c.lines.Span(start, end)
			c.cursor = end
		}
		return []*mdast.Node{out}
	case *gast.Link:
		out := mdast.New(mdast.Link, mdast.MergeText(c.inlineChildren(n))...)
		out.Target = decode(n.Destination)
		out.Title = decode(n.Title)
		c.linkSpan(out, 1)
		if raw, ok := c.caretReference(out); ok {
			return []*mdast.Node{mdast.NewText(raw, out.Pos)}
		}
		return []*mdast.Node{out}
	case *gast.Image:
		out := mdast.New(mdast.Image)
		alt := mdast.MergeText(c.inlineChildren(n))
		out.Literal = mdast.PlainText(mdast.New(mdast.Paragraph, alt...))
		out.Children = alt
		out.Target = decode(n.Destination)
		out.Title = decode(n.Title)
		c.linkSpan(out, 2)
		out.Children = nil
		return []*mdast.Node{out}
	case *gast.AutoLink:
		label := string(n.Label(c.src))
		out := mdast.New(mdast.Link)
		out.Target = string(n.URL(c.src))
		out.Inline = true
		if n.AutoLinkType == gast.AutoLinkEmail && !strings.HasPrefix(out.Target, "mailto:") {
			out.Target = "mailto:" + out.Target
		}
		var pos mdast.Position
		if i := bytes.Index(c.src[c.cursor:], []byte(label)); i >= 0 {
			start := c.cursor + i
			pos = c.lines.Span(max(start-1, 0), min(start+len(label)+1, len(c.src)))
			out.Append(mdast.NewText(label, c.lines.Span(start, start+len(label))))
			c.cursor = pos.End.Offset
		} else {
			out.Append(mdast.NewText(label, mdast.Position{}))
		}
		out.Pos = pos
		return []*mdast.Node{out}
	case *gast.RawHTML:
		var sb strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			sb.Write(seg.Value(c.src))
		}
		out := &mdast.Node{Kind: mdast.RawHTML, Literal: sb.String()}
		if n.Segments.Len() > 0 {
			out.Pos = c.lines.Span(n.Segments.At(0).Start, n.Segments.At(n.Segments.Len()-1).Stop)
			c.cursor = out.Pos.End.Offset
		}
		return []*mdast.Node{out}
	case *east.FootnoteLink:
		id := c.footnotes[n.Index]
		out := &mdast.Node{Kind: mdast.FootnoteReference, Literal: id}
		marker := []byte("[^" + id + "]")
		if i := bytes.Index(c.src[c.cursor:], marker); i >= 0 {
			start := c.cursor + i
			out.Pos = c.lines.Span(start, start+len(marker))
			c.cursor = out.Pos.End.Offset
		}
		return []*mdast.Node{out}
	}
	// Unknown inline: keep its text.
	return mdast.MergeText(c.inlineChildren(n))
}

// text converts a goldmark text run. Soft breaks become "\n" in the value;
// hard breaks become a HardBreak node followed by "\n".
func (c *converter) text(n *gast.Text) []*mdast.Node {
	seg := n.Segment
	raw := seg.Value(c.src)
	if !n.IsRaw() {
		if n.HardLineBreak() {
			raw = bytes.TrimSuffix(raw, []byte("\\"))
		}
		raw = []byte(decode(raw))
	}
	value := string(raw)
	pos := c.lines.Span(seg.Start, seg.Stop)
	c.cursor = seg.Stop
	switch {
	case n.HardLineBreak():
		br := &mdast.Node{Kind: mdast.HardBreak, Pos: c.lines.Span(seg.Stop, lineEnd(c.src, seg.Stop))}
		return []*mdast.Node{mdast.NewText(value, pos), br, mdast.NewText("\n", br.Pos)}
	case n.SoftLineBreak():
		return []*mdast.Node{mdast.NewText(value+"\n", pos)}
	}
	return []*mdast.Node{mdast.NewText(value, pos)}
}

// wrapSpan positions a node delimited by open and closing around its text
// children.
func (c *converter) wrapSpan(n gast.Node, open, closing string) mdast.Position {
	first, ok := n.FirstChild().(*gast.Text)
	if !ok {
		if i := bytes.Index(c.src[c.cursor:], []byte(open+closing)); i >= 0 {
			start := c.cursor + i
			c.cursor = start + len(open) + len(closing)
			return c.lines.Span(start, c.cursor)
		}
		return mdast.Position{}
	}
	last := n.LastChild().(*gast.Text)
	start := first.Segment.Start
	for start > 0 && c.src[start-1] == open[0] {
		start--
	}
	end := last.Segment.Stop
	for end < len(c.src) && c.src[end] == closing[0] {
		end++
	}
	c.cursor = end
	return c.lines.Span(start, end)
}

// linkSpan positions a link or image and records whether it was written
// inline. prefix is the width of the opening bracket ("[" or "![").
// caretReference reports whether a reference link points at a "[^...]"
// label. Such labels belong to footnotes, so the link is kept as its
// source text.
func (c *converter) caretReference(link *mdast.Node) (string, bool) {
	if link.Inline || link.Pos.IsZero() {
		return "", false
	}
	raw := string(c.src[link.Pos.Start.Offset:link.Pos.End.Offset])
	if !strings.HasPrefix(raw, "[^") && !strings.Contains(raw, "][^") {
		return "", false
	}
	return raw, true
}

func (c *converter) linkSpan(out *mdast.Node, prefix int) {
	from := c.cursor
	start := -1
	if len(out.Children) > 0 && !out.Children[0].Pos.IsZero() {
		start = out.Children[0].Pos.Start.Offset - prefix
		from = out.Children[len(out.Children)-1].Pos.End.Offset
	} else if i := bytes.IndexByte(c.src[from:], '['); i >= 0 {
		start = from + i - (prefix - 1)
		from += i + 1
	}
	if start < 0 {
		return
	}
	closeBracket := bytes.IndexByte(c.src[from:], ']')
	if closeBracket < 0 {
		return
	}
	end := from + closeBracket + 1
	if end < len(c.src) && c.src[end] == '(' {
		out.Inline = true
		if i := closingParen(c.src[end:]); i >= 0 {
			end += i + 1
		}
	} else if end < len(c.src) && c.src[end] == '[' {
		if i := bytes.IndexByte(c.src[end:], ']'); i >= 0 {
			end += i + 1
		}
	}
	out.Pos = c.lines.Span(start, end)
	c.cursor = end
}

// closingParen returns the index of the parenthesis closing the one at
// s[0], honoring nesting and angle-bracketed destinations.
func closingParen(s []byte) int {
	depth := 0
	angle := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '<':
			angle = true
		case '>':
			angle = false
		case '(':
			if !angle {
				depth++
			}
		case ')':
			if !angle {
				depth--
				if depth == 0 {
					return i
				}
			}
		case '\n':
			if i+1 < len(s) && s[i+1] == '\n' {
				return -1
			}
		}
	}
	return -1
}

// decode resolves backslash escapes and character references.
func decode(b []byte) string {
	return string(util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(b))))
}
