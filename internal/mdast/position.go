package mdast

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Point is a location in the source. Line and Column are 1-based, Column
// counts runes. Offset is the 0-based byte offset.
type Point struct {
	Line   int
	Column int
	Offset int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p sorts strictly before q.
func (p Point) Before(q Point) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Position is the source span of a node.
type Position struct {
	Start Point
	End   Point
}

// IsZero reports whether the position was never set.
func (p Position) IsZero() bool {
	return p.Start.Line == 0
}

func (p Position) String() string {
	return p.Start.String() + "-" + p.End.String()
}

// LineIndex maps byte offsets to line/column points.
type LineIndex struct {
	src    []byte
	starts []int
}

// NewLineIndex indexes the line starts of src.
func NewLineIndex(src []byte) *LineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// LineCount returns the number of lines, counting a trailing partial line.
func (x *LineIndex) LineCount() int {
	if len(x.src) > 0 && x.src[len(x.src)-1] == '\n' {
		return len(x.starts) - 1
	}
	return len(x.starts)
}

// Point converts a byte offset into a Point.
func (x *LineIndex) Point(offset int) Point {
	if offset < 0 {
		offset = 0
	}
	if offset > len(x.src) {
		offset = len(x.src)
	}
	line := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	col := utf8.RuneCount(x.src[x.starts[line]:offset]) + 1
	return Point{Line: line + 1, Column: col, Offset: offset}
}

// Span converts a byte range into a Position.
func (x *LineIndex) Span(start, end int) Position {
	return Position{Start: x.Point(start), End: x.Point(end)}
}

// LineStart returns the byte offset where 1-based line n starts.
func (x *LineIndex) LineStart(n int) int {
	if n < 1 {
		return 0
	}
	if n > len(x.starts) {
		return len(x.src)
	}
	return x.starts[n-1]
}

// Line returns 1-based line n without its newline.
func (x *LineIndex) Line(n int) string {
	if n < 1 || n > len(x.starts) {
		return ""
	}
	start := x.starts[n-1]
	end := len(x.src)
	if n < len(x.starts) {
		end = x.starts[n] - 1
	}
	if end < start {
		end = start
	}
	return string(x.src[start:end])
}

// LineSpan returns the Position covering all of 1-based line n.
func (x *LineIndex) LineSpan(n int) Position {
	start := x.LineStart(n)
	return x.Span(start, start+len(x.Line(n)))
}
