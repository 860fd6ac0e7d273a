package render

import (
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// footnoteRef numbers id on first use and returns the reference marker.
// Every occurrence gets its own back-reference anchor fnref-N-K.
func (s *state) footnoteRef(id string) *html.Node {
	if _, ok := s.res.Footnote(id); !ok {
		return textNode("[^" + id + "]")
	}
	num, ok := s.fnNum[id]
	if !ok {
		s.fnOrder = append(s.fnOrder, id)
		num = len(s.fnOrder)
		s.fnNum[id] = num
	}
	s.fnRefs[id]++
	a := element("a",
		"href", fmt.Sprintf("#fn-%d", num),
		"id", fmt.Sprintf("fnref-%d-%d", num, s.fnRefs[id]))
	return wrap(element("sup", "class", "p-fnref"), wrap(a, textNode(fmt.Sprintf("[%d]", num))))
}

// footnotes renders the definition list after the document flow:
// referenced definitions in first-reference order, then unreferenced
// ones without back-references.
func (s *state) footnotes() *html.Node {
	if len(s.res.Footnotes) == 0 {
		return nil
	}
	var bodies [][]*html.Node
	flush := func() {
		for len(bodies) < len(s.fnOrder) {
			def, _ := s.res.Footnote(s.fnOrder[len(bodies)])
			bodies = append(bodies, s.blocks(def.Children))
		}
	}
	flush()
	for _, def := range s.res.Footnotes {
		if _, ok := s.fnNum[def.Literal]; ok {
			continue
		}
		s.fnOrder = append(s.fnOrder, def.Literal)
		s.fnNum[def.Literal] = len(s.fnOrder)
		flush()
	}

	ol := element("ol")
	for i, id := range s.fnOrder {
		num := i + 1
		li := wrap(element("li", "id", fmt.Sprintf("fn-%d", num)), bodies[i]...)
		var back []*html.Node
		for k := 1; k <= s.fnRefs[id]; k++ {
			back = append(back, textNode(" "), wrap(element("a",
				"href", fmt.Sprintf("#fnref-%d-%d", num, k),
				"class", "p-footnotes__back"), textNode("↩")))
		}
		if len(back) > 0 {
			if last := li.LastChild; last != nil && last.DataAtom == atom.P {
				wrap(last, back...)
			} else {
				wrap(li, wrap(element("p"), back...))
			}
		}
		wrap(ol, li)
	}
	return wrap(element("section", "class", "p-footnotes"), ol)
}
