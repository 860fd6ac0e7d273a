package lint

import (
	"strings"

	"github.com/alnah/go-blogmark/internal/mdast"
)

// tableLine is one source line of a table.
type tableLine struct {
	n         int
	delimiter bool
}

// tableLines returns the source lines of t: its rows plus the delimiter
// row under the header.
func tableLines(t *mdast.Node) []tableLine {
	var out []tableLine
	for _, row := range t.Children {
		if row.Pos.IsZero() {
			continue
		}
		out = append(out, tableLine{n: row.Pos.Start.Line})
		if row.Header {
			out = append(out, tableLine{n: row.Pos.Start.Line + 1, delimiter: true})
		}
	}
	return out
}

// trimRow strips indentation and quote markers, returning the row text
// and its byte offset in the line.
func trimRow(line string) (string, int) {
	trimmed := strings.TrimLeft(line, " \t>")
	return strings.TrimRight(trimmed, " \t"), len(line) - len(trimmed)
}

func checkTablePipe(p *pass) {
	for _, t := range p.nodes(mdast.Table) {
		for _, tl := range tableLines(t) {
			row, col := trimRow(p.tree.Lines.Line(tl.n))
			if !strings.HasPrefix(row, "|") || !strings.HasSuffix(row, "|") || strings.HasSuffix(row, `\|`) {
				p.report(p.lineSpan(tl.n, col), "table row must start and end with |")
			}
		}
	}
}

// cell is the raw text between two pipes and its byte offset in the row.
type cell struct {
	text string
	off  int
}

// splitCells splits a row at unescaped pipes, dropping the outer ones.
func splitCells(row string) []cell {
	var cells []cell
	start := 0
	for i := 0; i < len(row); i++ {
		switch row[i] {
		case '\\':
			i++
		case '|':
			cells = append(cells, cell{text: row[start:i], off: start})
			start = i + 1
		}
	}
	cells = append(cells, cell{text: row[start:], off: start})
	if len(cells) > 0 && strings.TrimSpace(cells[0].text) == "" && strings.HasPrefix(row, "|") {
		cells = cells[1:]
	}
	if n := len(cells); n > 0 && cells[n-1].text == "" {
		cells = cells[:n-1]
	}
	return cells
}

func padded(s string) bool {
	return len(s) >= 3 && s[0] == ' ' && s[1] != ' ' && s[len(s)-1] == ' ' && s[len(s)-2] != ' '
}

// checkTablePadding requires exactly one space around the content of
// every non-empty cell. The delimiter row is exempt.
func checkTablePadding(p *pass) {
	for _, t := range p.nodes(mdast.Table) {
		for _, tl := range tableLines(t) {
			if tl.delimiter {
				continue
			}
			row, col := trimRow(p.tree.Lines.Line(tl.n))
			for _, c := range splitCells(row) {
				if strings.TrimSpace(c.text) == "" || padded(c.text) {
					continue
				}
				p.report(p.lineSpan(tl.n, col+c.off), "table cell %q needs one space on each side", strings.TrimSpace(c.text))
				break
			}
		}
	}
}
