package mdast

// WalkStatus tells Walk how to continue after a visit.
type WalkStatus int

const (
	WalkContinue WalkStatus = iota
	WalkSkipChildren
	WalkStop
)

// Walker is called on entering and leaving every node.
type Walker func(n *Node, entering bool) WalkStatus

// Walk visits root and its descendants depth-first in document order.
func Walk(root *Node, fn Walker) {
	walk(root, fn)
}

func walk(n *Node, fn Walker) WalkStatus {
	status := fn(n, true)
	if status == WalkStop {
		return WalkStop
	}
	if status != WalkSkipChildren {
		for _, c := range n.Children {
			if walk(c, fn) == WalkStop {
				return WalkStop
			}
		}
	}
	if fn(n, false) == WalkStop {
		return WalkStop
	}
	return WalkContinue
}

// Cursor addresses a child by its parent and index. It replaces parent
// back-pointers for sibling navigation.
type Cursor struct {
	Parent *Node
	Index  int
}

// Node returns the addressed node, or nil when the cursor is out of range.
func (c Cursor) Node() *Node {
	if c.Parent == nil || c.Index < 0 || c.Index >= len(c.Parent.Children) {
		return nil
	}
	return c.Parent.Children[c.Index]
}

// Next returns the cursor of the following sibling.
func (c Cursor) Next() Cursor {
	return Cursor{Parent: c.Parent, Index: c.Index + 1}
}

// Prev returns the cursor of the preceding sibling.
func (c Cursor) Prev() Cursor {
	return Cursor{Parent: c.Parent, Index: c.Index - 1}
}

// NextMatching returns the cursor of the first following sibling for which
// match is true, and false when there is none.
func (c Cursor) NextMatching(match func(*Node) bool) (Cursor, bool) {
	for i := c.Index + 1; i < len(c.Parent.Children); i++ {
		if match(c.Parent.Children[i]) {
			return Cursor{Parent: c.Parent, Index: i}, true
		}
	}
	return Cursor{}, false
}

// EachParent calls fn for every node that has children, parents before
// their descendants. fn may rewrite parent.Children; the walk then descends
// into the rewritten list.
func EachParent(root *Node, fn func(parent *Node)) {
	if len(root.Children) == 0 {
		return
	}
	fn(root)
	for _, c := range root.Children {
		EachParent(c, fn)
	}
}

// Find returns every node in root's subtree for which match is true.
func Find(root *Node, match func(*Node) bool) []*Node {
	var out []*Node
	Walk(root, func(n *Node, entering bool) WalkStatus {
		if entering && match(n) {
			out = append(out, n)
		}
		return WalkContinue
	})
	return out
}
