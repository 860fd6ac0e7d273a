package lint

import (
	"strings"

	"github.com/alnah/go-blogmark/internal/mdast"
)

func checkHardBreak(p *pass) {
	for _, n := range p.nodes(mdast.HardBreak) {
		p.report(n.Pos, "hard line break; end the paragraph or join the lines")
	}
}

func checkImage(p *pass) {
	for _, n := range p.nodes(mdast.Image) {
		p.report(n.Pos, "image %q; use an @%s embed instead", n.Target, n.Target)
	}
}

func checkThematicBreak(p *pass) {
	for _, n := range p.nodes(mdast.ThematicBreak) {
		p.report(n.Pos, "thematic break; use a heading to start a new part")
	}
}

func checkDefinition(p *pass) {
	for _, d := range p.tree.Definitions {
		p.report(d.Pos, "link reference definition [%s]", d.Label)
	}
}

// checkHTML reports raw HTML. Option blocks of embed lines such as
// "<Abc 100x100>" parse as inline tags and are not reported.
func checkHTML(p *pass) {
	mdast.Walk(p.tree.Root, func(n *mdast.Node, entering bool) mdast.WalkStatus {
		if !entering {
			return mdast.WalkContinue
		}
		switch n.Kind {
		case mdast.HTMLBlock:
			p.report(n.Pos, "HTML block")
		case mdast.RawHTML:
			if !p.onEmbedLine(n.Pos) {
				p.report(n.Pos, "inline HTML %s", n.Literal)
			}
		}
		return mdast.WalkContinue
	})
}

// onEmbedLine reports whether pos sits on an "@name:" line, optionally
// inside a list item.
func (p *pass) onEmbedLine(pos mdast.Position) bool {
	line := strings.TrimLeft(p.tree.Lines.Line(pos.Start.Line), " \t>")
	line = strings.TrimPrefix(line, "- ")
	return strings.HasPrefix(line, "@")
}

func checkLinkTitle(p *pass) {
	for _, n := range p.nodes(mdast.Link) {
		if n.Title != "" {
			p.report(n.Pos, "link title %q", n.Title)
		}
	}
}

func checkReferenceLink(p *pass) {
	for _, n := range p.nodes(mdast.Link) {
		if !n.Inline {
			p.report(n.Pos, "reference link to %q; write [text](target)", n.Target)
		}
	}
}

func checkEmphasisMarker(p *pass) {
	for _, n := range p.nodes(mdast.Emphasis) {
		if n.Delim != 0 && n.Delim != '*' {
			p.report(n.Pos, "emphasis with %q; use *text*", n.Delim)
		}
	}
}

func checkStrongMarker(p *pass) {
	for _, n := range p.nodes(mdast.Strong) {
		if n.Delim != 0 && n.Delim != '*' {
			p.report(n.Pos, "strong emphasis with %q; use **text**", n.Delim)
		}
	}
}

func checkEmptyLink(p *pass) {
	for _, n := range p.nodes(mdast.Link) {
		switch {
		case strings.TrimSpace(n.Target) == "":
			p.report(n.Pos, "link has no target")
		case strings.TrimSpace(mdast.PlainText(n)) == "":
			p.report(n.Pos, "link to %q has no text", n.Target)
		}
	}
}
