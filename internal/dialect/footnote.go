package dialect

import (
	"github.com/alnah/go-blogmark/internal/mdast"
)

// collectFootnotes moves footnote definitions out of the flow into the
// id → definition map and resolves references against it. The first
// definition of an id wins; later ones are put back as literal text, as
// are references to unknown or empty ids.
func collectFootnotes(c *compilation) {
	eachBlockContainer(c.root, func(parent *mdast.Node) {
		if parent.Kind == mdast.FootnoteDefinition {
			return
		}
		var out []*mdast.Node
		for _, child := range parent.Children {
			if child.Kind != mdast.FootnoteDefinition {
				out = append(out, child)
				continue
			}
			if _, dup := c.byID[child.Literal]; dup || child.Literal == "" {
				out = append(out, literalDefinition(child)...)
				continue
			}
			c.byID[child.Literal] = child
			c.footnotes = append(c.footnotes, child)
		}
		parent.Children = out
	})

	for _, tree := range c.trees() {
		mdast.EachParent(tree, func(parent *mdast.Node) {
			changed := false
			for i, child := range parent.Children {
				if child.Kind != mdast.FootnoteReference {
					continue
				}
				if _, ok := c.byID[child.Literal]; ok && child.Literal != "" {
					continue
				}
				parent.Children[i] = mdast.NewText("[^"+child.Literal+"]", child.Pos)
				changed = true
			}
			if changed {
				parent.Children = mdast.MergeText(parent.Children)
			}
		})
	}
}

// literalDefinition turns a rejected definition back into the blocks it
// was written as, with its "[^id]: " label leading the first paragraph.
func literalDefinition(def *mdast.Node) []*mdast.Node {
	label := mdast.NewText("[^"+def.Literal+"]: ", mdast.Position{Start: def.Pos.Start, End: def.Pos.Start})
	if len(def.Children) > 0 && def.Children[0].Kind == mdast.Paragraph {
		first := def.Children[0]
		first.Children = mdast.MergeText(append([]*mdast.Node{label}, first.Children...))
		first.Pos.Start = def.Pos.Start
		return def.Children
	}
	p := mdast.New(mdast.Paragraph, label)
	p.Pos = mdast.Position{Start: def.Pos.Start, End: def.Pos.Start}
	return append([]*mdast.Node{p}, def.Children...)
}
