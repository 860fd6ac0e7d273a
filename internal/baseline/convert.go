package baseline

import (
	"bytes"
	"sort"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-blogmark/internal/mdast"
)

// converter walks a goldmark AST and builds the matching mdast tree.
type converter struct {
	src   []byte
	lines *mdast.LineIndex

	// footnotes maps goldmark's first-use index to the definition label.
	footnotes map[int]string

	// cursor is the end offset of the last converted inline, used to
	// locate inline nodes goldmark keeps no segment for.
	cursor int

	// lastLine is the last source line claimed by a converted block.
	lastLine int
}

func newConverter(src []byte, lines *mdast.LineIndex) *converter {
	return &converter{src: src, lines: lines, footnotes: make(map[int]string)}
}

// indexFootnotes records which label each footnote index refers to.
func (c *converter) indexFootnotes(doc gast.Node) {
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if fn, ok := n.(*east.Footnote); ok && entering && fn.Index > 0 {
			c.footnotes[fn.Index] = string(fn.Ref)
		}
		return gast.WalkContinue, nil
	})
}

func (c *converter) document(doc gast.Node) *mdast.Node {
	root := mdast.New(mdast.Document, c.blocks(doc)...)
	root.Pos = c.lines.Span(0, len(c.src))
	return root
}

// blocks converts the block children of parent. Footnote lists are
// flattened into their definitions and re-sorted into source order.
func (c *converter) blocks(parent gast.Node) []*mdast.Node {
	var out []*mdast.Node
	flattened := false
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if list, ok := n.(*east.FootnoteList); ok {
			for fn := list.FirstChild(); fn != nil; fn = fn.NextSibling() {
				out = append(out, c.block(fn))
			}
			flattened = true
			continue
		}
		if b := c.block(n); b != nil {
			out = append(out, b)
		}
	}
	if flattened {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Pos.Start.Offset < out[j].Pos.Start.Offset
		})
	}
	return out
}

func (c *converter) block(n gast.Node) *mdast.Node {
	var out *mdast.Node
	switch n := n.(type) {
	case *gast.Paragraph, *gast.TextBlock:
		out = mdast.New(mdast.Paragraph, c.inlines(n)...)
		out.Pos = c.segmentsSpan(n.Lines())
	case *gast.Heading:
		out = c.heading(n)
	case *gast.ThematicBreak:
		out = mdast.New(mdast.ThematicBreak)
		out.Pos = c.findThematicBreak()
	case *gast.CodeBlock:
		out = &mdast.Node{Kind: mdast.CodeBlock, Literal: c.linesText(n.Lines())}
		out.Pos = c.segmentsSpan(n.Lines())
	case *gast.FencedCodeBlock:
		out = c.fencedCode(n)
	case *gast.HTMLBlock:
		out = c.htmlBlock(n)
	case *gast.Blockquote:
		out = mdast.New(mdast.Blockquote, c.blocks(n)...)
		out.Pos = c.blockquoteSpan(out.Children)
	case *gast.List:
		out = c.list(n)
	case *gast.ListItem:
		out = c.listItem(n)
	case *east.Table:
		out = c.table(n)
	case *east.DefinitionList:
		out = mdast.New(mdast.DefinitionList, c.blocks(n)...)
		out.Pos = childrenSpan(out.Children)
	case *east.DefinitionTerm:
		out = mdast.New(mdast.DefinitionTerm, c.inlines(n)...)
		out.Pos = c.segmentsSpan(n.Lines())
	case *east.DefinitionDescription:
		out = mdast.New(mdast.DefinitionDescription, c.blocks(n)...)
		out.Pos = childrenSpan(out.Children)
	case *east.Footnote:
		out = c.footnote(n)
	default:
		return nil
	}
	if !out.Pos.IsZero() && out.Pos.End.Line > c.lastLine {
		c.lastLine = out.Pos.End.Line
	}
	return out
}

func (c *converter) heading(n *gast.Heading) *mdast.Node {
	out := mdast.New(mdast.Heading, c.inlines(n)...)
	out.Depth = n.Level
	lines := n.Lines()
	if lines.Len() == 0 {
		// Empty ATX heading such as "##".
		out.Pos = c.findLine(c.lastLine+1, func(s string) bool {
			return strings.HasPrefix(strings.TrimLeft(s, " >"), "#")
		})
		return out
	}
	first := lines.At(0)
	i := first.Start - 1
	for i >= 0 && (c.src[i] == ' ' || c.src[i] == '\t') {
		i--
	}
	if i >= 0 && c.src[i] == '#' {
		for i >= 0 && c.src[i] == '#' {
			i--
		}
		end := lineEnd(c.src, lines.At(lines.Len()-1).Stop)
		out.Pos = c.lines.Span(i+1, end)
		return out
	}
	out.Setext = true
	last := lines.At(lines.Len() - 1)
	// The underline follows the last content line.
	underline := c.lines.Point(trimNewline(c.src, last.Stop)).Line + 1
	end := c.lines.LineStart(underline) + len(c.lines.Line(underline))
	out.Pos = c.lines.Span(first.Start, end)
	return out
}

func (c *converter) fencedCode(n *gast.FencedCodeBlock) *mdast.Node {
	out := &mdast.Node{Kind: mdast.CodeBlock, Literal: c.linesText(n.Lines())}
	out.Fenced = true
	out.Language = string(n.Language(c.src))

	var open int
	switch {
	case n.Info != nil:
		open = c.lines.Point(n.Info.Segment.Start).Line
	case n.Lines().Len() > 0:
		open = c.lines.Point(n.Lines().At(0).Start).Line - 1
	default:
		open = c.findLine(c.lastLine+1, isFenceLine).Start.Line
	}
	line := c.lines.Line(open)
	idx := fenceIndex(line)
	if idx < 0 {
		idx = 0
	}
	if idx < len(line) {
		out.FenceChar = line[idx]
	}
	start := c.lines.LineStart(open) + idx

	closing := open + n.Lines().Len() + 1
	if closing > c.lines.LineCount() || !isFenceLine(c.lines.Line(closing)) {
		closing = open + n.Lines().Len()
	}
	end := c.lines.LineStart(closing) + len(c.lines.Line(closing))
	out.Pos = c.lines.Span(start, end)
	return out
}

func (c *converter) htmlBlock(n *gast.HTMLBlock) *mdast.Node {
	var sb strings.Builder
	sb.WriteString(c.linesText(n.Lines()))
	pos := c.segmentsSpan(n.Lines())
	if n.HasClosure() {
		sb.Write(n.ClosureLine.Value(c.src))
		end := c.lines.Point(trimNewline(c.src, n.ClosureLine.Stop))
		if pos.IsZero() {
			pos.Start = c.lines.Point(n.ClosureLine.Start)
		}
		pos.End = end
	}
	return &mdast.Node{Kind: mdast.HTMLBlock, Literal: sb.String(), Pos: pos}
}

func (c *converter) list(n *gast.List) *mdast.Node {
	out := mdast.New(mdast.List, c.blocks(n)...)
	out.Ordered = n.IsOrdered()
	out.Start = n.Start
	out.Tight = n.IsTight
	if out.Ordered {
		out.Delimiter = n.Marker
	} else {
		out.BulletChar = n.Marker
	}
	for _, item := range out.Children {
		item.Ordered = out.Ordered
		item.BulletChar = out.BulletChar
		item.Delimiter = out.Delimiter
		item.Tight = out.Tight
	}
	out.Pos = childrenSpan(out.Children)
	return out
}

// listItem converts n and measures its marker from the source, since
// goldmark only keeps the column the content starts at.
func (c *converter) listItem(n *gast.ListItem) *mdast.Node {
	out := mdast.New(mdast.ListItem, c.blocks(n)...)
	if len(out.Children) == 0 {
		out.Pos = c.findLine(c.lastLine+1, func(s string) bool {
			return strings.TrimSpace(s) != ""
		})
		return out
	}
	content := out.Children[0].Pos.Start.Offset
	lineStart := c.lines.LineStart(out.Children[0].Pos.Start.Line)
	i := content - 1
	for i >= lineStart && (c.src[i] == ' ' || c.src[i] == '\t') {
		i--
	}
	markerEnd := i + 1
	if i >= lineStart && (c.src[i] == '.' || c.src[i] == ')') {
		i--
		for i >= lineStart && c.src[i] >= '0' && c.src[i] <= '9' {
			i--
		}
	} else if i >= lineStart {
		i--
	}
	markerStart := i + 1
	out.MarkerLen = markerEnd - markerStart
	out.Offset = content - markerStart
	out.Pos = c.lines.Span(markerStart, out.Children[len(out.Children)-1].Pos.End.Offset)
	return out
}

func (c *converter) table(n *east.Table) *mdast.Node {
	out := mdast.New(mdast.Table)
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		r := mdast.New(mdast.TableRow)
		_, r.Header = row.(*east.TableHeader)
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			tc, ok := cell.(*east.TableCell)
			if !ok {
				continue
			}
			node := mdast.New(mdast.TableCell, c.inlines(tc)...)
			node.Header = r.Header
			node.Align = convertAlign(tc.Alignment)
			node.Pos = c.segmentsSpan(tc.Lines())
			if node.Pos.IsZero() {
				node.Pos = childrenSpan(node.Children)
			}
			r.Append(node)
		}
		r.Pos = childrenSpan(r.Children)
		if !r.Pos.IsZero() {
			r.Pos = c.lines.Span(c.lines.LineStart(r.Pos.Start.Line), c.lines.LineStart(r.Pos.Start.Line)+len(c.lines.Line(r.Pos.Start.Line)))
		}
		out.Append(r)
	}
	out.Pos = childrenSpan(out.Children)
	return out
}

func convertAlign(a east.Alignment) mdast.Align {
	switch a {
	case east.AlignLeft:
		return mdast.AlignLeft
	case east.AlignCenter:
		return mdast.AlignCenter
	case east.AlignRight:
		return mdast.AlignRight
	}
	return mdast.AlignNone
}

func (c *converter) footnote(n *east.Footnote) *mdast.Node {
	out := mdast.New(mdast.FootnoteDefinition, c.blocks(n)...)
	out.Literal = string(n.Ref)
	label := []byte("[^" + out.Literal + "]:")
	if len(out.Children) > 0 {
		first := out.Children[0].Pos.Start
		lineStart := c.lines.LineStart(first.Line)
		if i := bytes.Index(c.src[lineStart:first.Offset], label); i >= 0 {
			out.Pos = c.lines.Span(lineStart+i, out.Children[len(out.Children)-1].Pos.End.Offset)
			return out
		}
	}
	if i := bytes.Index(c.src, label); i >= 0 {
		out.Pos = c.lines.Span(i, lineEnd(c.src, i))
		if len(out.Children) > 0 {
			out.Pos.End = out.Children[len(out.Children)-1].Pos.End
		}
	}
	return out
}

// findThematicBreak locates the next thematic break after the last
// claimed line. goldmark keeps no segment for it.
func (c *converter) findThematicBreak() mdast.Position {
	return c.findLine(c.lastLine+1, func(s string) bool {
		s = strings.TrimLeft(s, " >")
		if s == "" {
			return false
		}
		ch := s[0]
		if ch != '-' && ch != '*' && ch != '_' {
			return false
		}
		count := 0
		for i := 0; i < len(s); i++ {
			switch s[i] {
			case ch:
				count++
			case ' ', '\t':
			default:
				return false
			}
		}
		return count >= 3
	})
}

// findLine returns the span of the first line at or after from that
// satisfies match, with leading blanks excluded.
func (c *converter) findLine(from int, match func(string) bool) mdast.Position {
	for n := max(from, 1); n <= c.lines.LineCount(); n++ {
		line := c.lines.Line(n)
		if match(line) {
			start := c.lines.LineStart(n)
			lead := len(line) - len(strings.TrimLeft(line, " >"))
			return c.lines.Span(start+lead, start+len(line))
		}
	}
	return mdast.Position{}
}

func (c *converter) blockquoteSpan(children []*mdast.Node) mdast.Position {
	pos := childrenSpan(children)
	if pos.IsZero() {
		return c.findLine(c.lastLine+1, func(s string) bool {
			return strings.HasPrefix(strings.TrimLeft(s, " "), ">")
		})
	}
	lineStart := c.lines.LineStart(pos.Start.Line)
	if i := bytes.IndexByte(c.src[lineStart:pos.Start.Offset], '>'); i >= 0 {
		pos.Start = c.lines.Point(lineStart + i)
	}
	return pos
}

func (c *converter) segmentsSpan(segs *text.Segments) mdast.Position {
	if segs == nil || segs.Len() == 0 {
		return mdast.Position{}
	}
	start := segs.At(0).Start
	end := trimNewline(c.src, segs.At(segs.Len()-1).Stop)
	if end < start {
		end = start
	}
	return c.lines.Span(start, end)
}

func (c *converter) linesText(segs *text.Segments) string {
	var sb strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		sb.Write(seg.Value(c.src))
	}
	return sb.String()
}

// childrenSpan spans from the first to the last positioned child.
func childrenSpan(children []*mdast.Node) mdast.Position {
	var pos mdast.Position
	for _, ch := range children {
		if ch.Pos.IsZero() {
			continue
		}
		if pos.IsZero() {
			pos.Start = ch.Pos.Start
		}
		pos.End = ch.Pos.End
	}
	return pos
}

func isFenceLine(s string) bool {
	return fenceIndex(s) >= 0
}

// fenceIndex returns the byte index of a code fence on line s, or -1.
func fenceIndex(s string) int {
	a, b := strings.Index(s, "```"), strings.Index(s, "~~~")
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	}
	return min(a, b)
}

func trimNewline(src []byte, end int) int {
	for end > 0 && end <= len(src) && src[end-1] == '\n' {
		end--
	}
	return end
}

func lineEnd(src []byte, offset int) int {
	if i := bytes.IndexByte(src[offset:], '\n'); i >= 0 {
		return offset + i
	}
	return len(src)
}
