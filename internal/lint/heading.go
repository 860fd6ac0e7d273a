package lint

import (
	"strings"

	"github.com/alnah/go-blogmark/internal/mdast"
)

// headings returns the headings of the document flow in order, skipping
// footnote definitions.
func (p *pass) headings() []*mdast.Node {
	var out []*mdast.Node
	mdast.Walk(p.tree.Root, func(n *mdast.Node, entering bool) mdast.WalkStatus {
		if !entering {
			return mdast.WalkContinue
		}
		switch n.Kind {
		case mdast.FootnoteDefinition:
			return mdast.WalkSkipChildren
		case mdast.Heading:
			out = append(out, n)
			return mdast.WalkSkipChildren
		}
		return mdast.WalkContinue
	})
	return out
}

func headingText(n *mdast.Node) string {
	return strings.TrimSpace(mdast.PlainText(n))
}

func checkFirstHeadingDepth(p *pass) {
	hs := p.headings()
	if len(hs) == 0 || hs[0].Depth == 1 {
		return
	}
	p.report(hs[0].Pos, "first heading has depth %d, want 1", hs[0].Depth)
}

func checkHeadingIncrement(p *pass) {
	prev := 0
	for _, h := range p.headings() {
		if prev > 0 && h.Depth > prev+1 {
			p.report(h.Pos, "heading depth jumps from %d to %d", prev, h.Depth)
		}
		prev = h.Depth
	}
}

func checkHeadingDepthMax(p *pass) {
	for _, h := range p.headings() {
		if h.Depth > p.cfg.MaxHeadingDepth {
			p.report(h.Pos, "heading depth %d exceeds %d", h.Depth, p.cfg.MaxHeadingDepth)
		}
	}
}

func checkHeadingStyle(p *pass) {
	for _, h := range p.headings() {
		if h.Setext {
			p.report(h.Pos, "underlined heading; use %s", strings.Repeat("#", h.Depth))
		}
	}
}

// checkDuplicateHeading compares headings that share a parent heading.
// Opening a heading at depth d starts fresh scopes for every deeper level.
func checkDuplicateHeading(p *pass) {
	var seen [7]map[string]bool
	for _, h := range p.headings() {
		d := min(max(h.Depth, 1), 6)
		for k := d + 1; k < len(seen); k++ {
			seen[k] = nil
		}
		if seen[d] == nil {
			seen[d] = make(map[string]bool)
		}
		key := strings.ToLower(headingText(h))
		if seen[d][key] {
			p.report(h.Pos, "duplicate heading %q in the same section", headingText(h))
		}
		seen[d][key] = true
	}
}

// checkEmptySection reports top-level headings followed directly by a
// heading of the same or lower depth, or by the end of the document.
func checkEmptySection(p *pass) {
	var flow []*mdast.Node
	for _, n := range p.tree.Root.Children {
		if n.Kind != mdast.FootnoteDefinition {
			flow = append(flow, n)
		}
	}
	for i, n := range flow {
		if n.Kind != mdast.Heading {
			continue
		}
		if i+1 < len(flow) {
			next := flow[i+1]
			if next.Kind != mdast.Heading || next.Depth > n.Depth {
				continue
			}
		}
		p.report(n.Pos, "section %q is empty", headingText(n))
	}
}
