package dialect

import (
	"strings"

	"github.com/alnah/go-blogmark/internal/mdast"
)

type boxMarker int

const (
	noMarker boxMarker = iota
	boxOpen
	boxClose
)

// parseBoxMarker classifies one paragraph line. An opener is ":::" followed
// directly by a name of letters, digits, '-' or '_'; a closer is ":::" alone.
func parseBoxMarker(line []*mdast.Node) (boxMarker, string) {
	s, ok := mdast.LineText(line)
	if !ok {
		return noMarker, ""
	}
	s = strings.TrimRight(s, " \t")
	if !strings.HasPrefix(s, ":::") {
		return noMarker, ""
	}
	name := s[3:]
	if name == "" {
		return boxClose, ""
	}
	for i := 0; i < len(name); i++ {
		if !isNameByte(name[i]) {
			return noMarker, ""
		}
	}
	return boxOpen, name
}

func isNameByte(b byte) bool {
	return b == '-' || b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// boxItem is a block, a paragraph piece or a marker line during matching.
type boxItem struct {
	node   *mdast.Node
	marker boxMarker
	name   string
	lines  [][]*mdast.Node // paragraph pieces and markers only
	origin int             // index of the paragraph the item was cut from
}

type boxFrame struct {
	opener boxItem
	items  []boxItem
}

func recognizeBoxes(c *compilation) {
	for _, tree := range c.trees() {
		eachBlockContainer(tree, func(parent *mdast.Node) {
			parent.Children = matchBoxes(parent.Children)
		})
	}
}

// matchBoxes splits paragraphs at marker lines, pairs openers with
// closers using a stack and wraps what lies between into Box nodes.
// Unpaired markers are merged back into their paragraphs.
func matchBoxes(children []*mdast.Node) []*mdast.Node {
	items, found := explodeBoxMarkers(children)
	if !found {
		return children
	}

	stack := []*boxFrame{{}}
	top := func() *boxFrame { return stack[len(stack)-1] }
	for _, it := range items {
		switch it.marker {
		case boxOpen:
			stack = append(stack, &boxFrame{opener: it})
		case boxClose:
			if len(stack) == 1 {
				top().items = append(top().items, it)
				continue
			}
			f := top()
			stack = stack[:len(stack)-1]
			box := &mdast.Node{Kind: mdast.Box, Literal: f.opener.name, Children: mergeBoxItems(f.items)}
			box.Pos = mdast.Position{
				Start: mdast.LinePosition(f.opener.lines[0]).Start,
				End:   mdast.LinePosition(it.lines[0]).End,
			}
			top().items = append(top().items, boxItem{node: box, origin: -1})
		default:
			top().items = append(top().items, it)
		}
	}
	for len(stack) > 1 {
		f := top()
		stack = stack[:len(stack)-1]
		top().items = append(append(top().items, f.opener), f.items...)
	}
	return mergeBoxItems(stack[0].items)
}

func explodeBoxMarkers(children []*mdast.Node) ([]boxItem, bool) {
	var items []boxItem
	found := false
	for i, child := range children {
		if child.Kind != mdast.Paragraph {
			items = append(items, boxItem{node: child, origin: -1})
			continue
		}
		lines := mdast.SplitLines(child.Children)
		var piece [][]*mdast.Node
		split := false
		for _, line := range lines {
			marker, name := parseBoxMarker(line)
			if marker == noMarker {
				piece = append(piece, line)
				continue
			}
			split, found = true, true
			if len(piece) > 0 {
				items = append(items, boxItem{lines: piece, origin: i})
				piece = nil
			}
			items = append(items, boxItem{marker: marker, name: name, lines: [][]*mdast.Node{line}, origin: i})
		}
		if !split {
			items = append(items, boxItem{node: child, origin: -1})
			continue
		}
		if len(piece) > 0 {
			items = append(items, boxItem{lines: piece, origin: i})
		}
	}
	return items, found
}

// mergeBoxItems rebuilds blocks, joining neighbouring pieces of the same
// source paragraph.
func mergeBoxItems(items []boxItem) []*mdast.Node {
	var out []*mdast.Node
	for i := 0; i < len(items); {
		it := items[i]
		if it.node != nil {
			out = append(out, it.node)
			i++
			continue
		}
		lines := append([][]*mdast.Node(nil), it.lines...)
		j := i + 1
		for j < len(items) && items[j].node == nil && items[j].origin == it.origin {
			lines = append(lines, items[j].lines...)
			j++
		}
		if p := mdast.ParagraphFromLines(lines); p != nil {
			out = append(out, p)
		}
		i = j
	}
	return out
}
