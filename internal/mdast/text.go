package mdast

import "strings"

// PlainText returns the visible text of n's subtree: Text and Code literals
// concatenated, footnote references and breaks omitted.
func PlainText(n *Node) string {
	var sb strings.Builder
	Walk(n, func(c *Node, entering bool) WalkStatus {
		if !entering {
			return WalkContinue
		}
		switch c.Kind {
		case Text, Code:
			sb.WriteString(c.Literal)
		case FootnoteReference:
			return WalkSkipChildren
		case Image:
			sb.WriteString(c.Literal)
		}
		return WalkContinue
	})
	return sb.String()
}

// MergeText joins adjacent Text nodes and drops empty ones.
func MergeText(children []*Node) []*Node {
	out := children[:0:0]
	for _, c := range children {
		if c.Kind == Text {
			if c.Literal == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Kind == Text {
				prev := *out[n-1]
				prev.Literal += c.Literal
				prev.Pos.End = c.Pos.End
				out[n-1] = &prev
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// SplitLines splits inline content at the newlines held in Text values.
// Nodes other than Text are never split.
func SplitLines(children []*Node) [][]*Node {
	lines := [][]*Node{nil}
	for _, c := range children {
		if c.Kind != Text || !strings.Contains(c.Literal, "\n") {
			lines[len(lines)-1] = append(lines[len(lines)-1], c)
			continue
		}
		parts := strings.Split(c.Literal, "\n")
		offset := c.Pos.Start.Offset
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
				offset++
			}
			if part != "" {
				piece := &Node{Kind: Text, Literal: part}
				piece.Pos.Start = Point{Line: c.Pos.Start.Line + i, Column: c.Pos.Start.Column, Offset: offset}
				if i > 0 {
					piece.Pos.Start.Column = 1
				}
				piece.Pos.End = Point{Line: piece.Pos.Start.Line, Column: piece.Pos.Start.Column + len([]rune(part)), Offset: offset + len(part)}
				lines[len(lines)-1] = append(lines[len(lines)-1], piece)
			}
			offset += len(part)
		}
	}
	return lines
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines [][]*Node) []*Node {
	var out []*Node
	for i, line := range lines {
		if i > 0 {
			out = append(out, &Node{Kind: Text, Literal: "\n"})
		}
		out = append(out, line...)
	}
	return MergeText(out)
}

// LineText returns the concatenated text of a line when the line consists
// of Text nodes only.
func LineText(line []*Node) (string, bool) {
	var sb strings.Builder
	for _, c := range line {
		if c.Kind != Text {
			return "", false
		}
		sb.WriteString(c.Literal)
	}
	return sb.String(), true
}

// LinePosition returns the span of a line produced by SplitLines.
func LinePosition(line []*Node) Position {
	if len(line) == 0 {
		return Position{}
	}
	return Position{Start: line[0].Pos.Start, End: line[len(line)-1].Pos.End}
}

// ParagraphFromLines builds a paragraph from lines, dropping empty leading
// and trailing lines. It returns nil when nothing is left.
func ParagraphFromLines(lines [][]*Node) *Node {
	for len(lines) > 0 && len(lines[0]) == 0 {
		lines = lines[1:]
	}
	for len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	children := JoinLines(lines)
	if len(children) == 0 {
		return nil
	}
	p := New(Paragraph, children...)
	p.Pos = Position{Start: children[0].Pos.Start, End: children[len(children)-1].Pos.End}
	return p
}
