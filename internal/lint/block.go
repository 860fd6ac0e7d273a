package lint

import (
	"strings"

	"github.com/alnah/go-blogmark/internal/mdast"
)

// checkBlankLineBetweenBlocks requires an empty line between sibling
// blocks. A list nested directly under its item's first paragraph is
// allowed to follow without one.
func checkBlankLineBetweenBlocks(p *pass) {
	mdast.EachParent(p.tree.Root, func(parent *mdast.Node) {
		switch parent.Kind {
		case mdast.Document, mdast.Blockquote, mdast.ListItem,
			mdast.FootnoteDefinition, mdast.DefinitionDescription:
		default:
			return
		}
		var prev *mdast.Node
		for _, child := range parent.Children {
			if child.Kind.IsInline() || child.Pos.IsZero() {
				continue
			}
			nested := parent.Kind == mdast.ListItem && child.Kind == mdast.List
			if prev != nil && !nested && child.Pos.Start.Line-prev.Pos.End.Line < 2 {
				p.report(child.Pos, "%s directly follows %s; insert a blank line", child.Kind, prev.Kind)
			}
			prev = child
		}
	})
}

// checkMultipleBlankLines reports the second blank line of every run
// outside code blocks.
func checkMultipleBlankLines(p *pass) {
	code := p.codeLines()
	blank := 0
	for n := 1; n <= p.tree.Lines.LineCount(); n++ {
		if code[n] {
			blank = 0
			continue
		}
		if strings.TrimSpace(p.tree.Lines.Line(n)) != "" {
			blank = 0
			continue
		}
		blank++
		if blank == 2 {
			p.report(p.lineSpan(n, 0), "more than one consecutive blank line")
		}
	}
}

func checkListMarker(p *pass) {
	for _, l := range p.nodes(mdast.List) {
		if !l.Ordered && l.BulletChar != '-' {
			p.report(l.Pos, "bullet %q; use -", l.BulletChar)
		}
	}
}

func checkOrderedListDelimiter(p *pass) {
	for _, l := range p.nodes(mdast.List) {
		if l.Ordered && l.Delimiter != '.' {
			p.report(l.Pos, "ordered list delimiter %q; use N.", l.Delimiter)
		}
	}
}

func checkOrderedListStart(p *pass) {
	for _, l := range p.nodes(mdast.List) {
		if l.Ordered && l.Start != 1 {
			p.report(l.Pos, "ordered list starts at %d, want 1", l.Start)
		}
	}
}

func checkListItemIndent(p *pass) {
	for _, item := range p.nodes(mdast.ListItem) {
		if len(item.Children) == 0 || item.MarkerLen == 0 {
			continue
		}
		if gap := item.Offset - item.MarkerLen; gap != 1 {
			p.report(item.Pos, "%d spaces after list marker, want 1", gap)
		}
	}
}

func checkLooseList(p *pass) {
	for _, l := range p.nodes(mdast.List) {
		if !l.Tight {
			p.report(l.Pos, "loose list; remove blank lines between items")
		}
	}
}

// quotes returns the outermost blockquotes.
func (p *pass) quotes() []*mdast.Node {
	var out []*mdast.Node
	mdast.Walk(p.tree.Root, func(n *mdast.Node, entering bool) mdast.WalkStatus {
		if entering && n.Kind == mdast.Blockquote {
			out = append(out, n)
			return mdast.WalkSkipChildren
		}
		return mdast.WalkContinue
	})
	return out
}

// checkBlockquoteIndent inspects the gap between the marker and the
// start of each block in the quote.
func checkBlockquoteIndent(p *pass) {
	src := p.tree.Source
	for _, q := range p.quotes() {
		for _, child := range q.Children {
			if child.Pos.IsZero() {
				continue
			}
			lineStart := p.tree.Lines.LineStart(child.Pos.Start.Line)
			if child.Pos.Start.Offset < lineStart {
				continue
			}
			prefix := string(src[lineStart:child.Pos.Start.Offset])
			i := strings.IndexByte(prefix, '>')
			if i < 0 {
				continue
			}
			if gap := prefix[i+1:]; gap != " " {
				p.report(child.Pos, "%d spaces after >, want 1", len(gap))
			}
		}
	}
}

// checkBlockquoteLazyLine reports continuation lines without a marker.
func checkBlockquoteLazyLine(p *pass) {
	for _, q := range p.quotes() {
		for n := q.Pos.Start.Line + 1; n <= q.Pos.End.Line; n++ {
			line := p.tree.Lines.Line(n)
			trimmed := strings.TrimLeft(line, " \t")
			if !strings.HasPrefix(trimmed, ">") {
				p.report(p.lineSpan(n, len(line)-len(trimmed)), "quoted line without >")
			}
		}
	}
}

func checkIndentedCode(p *pass) {
	for _, n := range p.nodes(mdast.CodeBlock) {
		if !n.Fenced {
			p.report(n.Pos, "indented code block; use a ``` fence")
		}
	}
}

func checkCodeFenceMarker(p *pass) {
	for _, n := range p.nodes(mdast.CodeBlock) {
		if n.Fenced && n.FenceChar != '`' {
			p.report(n.Pos, "code fence with %q; use ```", n.FenceChar)
		}
	}
}

func checkCodeFenceLanguage(p *pass) {
	for _, n := range p.nodes(mdast.CodeBlock) {
		if !n.Fenced {
			continue
		}
		switch lang := strings.ToLower(n.Language); {
		case lang == "":
			p.report(n.Pos, "code fence without language")
		case !p.langs[lang]:
			p.report(n.Pos, "code fence language %q is not allowed", n.Language)
		}
	}
}
