package dialect

import (
	"strings"

	"github.com/alnah/go-blogmark/internal/mdast"
)

// markEmptyParagraphs replaces paragraphs with no visible content by
// EmptyMarker nodes.
func markEmptyParagraphs(c *compilation) {
	for _, tree := range c.trees() {
		eachBlockContainer(tree, func(parent *mdast.Node) {
			for i, child := range parent.Children {
				if child.Kind == mdast.Paragraph && isBlank(child) {
					parent.Children[i] = &mdast.Node{Kind: mdast.EmptyMarker, Pos: child.Pos}
				}
			}
		})
	}
}

func isBlank(p *mdast.Node) bool {
	for _, ch := range p.Children {
		switch ch.Kind {
		case mdast.Text:
			if strings.TrimSpace(ch.Literal) != "" {
				return false
			}
		case mdast.HardBreak:
		default:
			return false
		}
	}
	return true
}
