package dialect

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/emirpasic/gods/stacks/arraystack"
	"golang.org/x/text/unicode/norm"

	"github.com/alnah/go-blogmark/internal/mdast"
)

// Slugify turns heading text into an anchor id without prefix: NFKC
// normalized, lowercased, whitespace runs joined by '-', punctuation and
// symbols other than '-' and '_' removed. Empty results become "section".
func Slugify(text string) string {
	s := strings.ToLower(norm.NFKC.String(strings.TrimSpace(text)))
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r):
		default:
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte('-')
		}
		space = false
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}

// uniqueSlug prefixes base and appends -2, -3, ... until unused.
func (c *compilation) uniqueSlug(base string) string {
	slug := c.opts.SlugPrefix + base
	candidate := slug
	for n := 2; c.slugs[candidate]; n++ {
		candidate = slug + "-" + strconv.Itoa(n)
	}
	c.slugs[candidate] = true
	return candidate
}

// recognizeHeadings assigns slugs, demotes headings deeper than the
// maximum to section breaks and inserts the table of contents.
func recognizeHeadings(c *compilation) {
	var top []*mdast.Node
	var tocAt mdast.Cursor
	eachBlockContainer(c.root, func(parent *mdast.Node) {
		for i, child := range parent.Children {
			if child.Kind != mdast.Heading {
				continue
			}
			if child.Depth > c.opts.MaxHeadingDepth {
				parent.Children[i] = &mdast.Node{Kind: mdast.SectionBreak, Pos: child.Pos}
				continue
			}
			child.Slug = c.uniqueSlug(Slugify(mdast.PlainText(child)))
			if child.Depth == 1 {
				if len(top) == 0 {
					tocAt = mdast.Cursor{Parent: parent, Index: i}
				}
				top = append(top, child)
			}
		}
	})
	if len(top) < 2 {
		return
	}
	toc := &mdast.Node{Kind: mdast.TableOfContents, Pos: top[0].Pos}
	for _, h := range top {
		entry := mdast.New(mdast.Link, tocText(h.Children)...)
		entry.Target = "#" + h.Slug
		entry.Meta = &mdast.LinkMeta{Href: entry.Target, HasHref: true}
		entry.Pos = h.Pos
		toc.Append(entry)
	}
	tocAt.Parent.Splice(tocAt.Index, tocAt.Index, toc)
}

// tocText copies heading content for a TOC entry, dropping footnote
// references and unwrapping links so entries do not nest anchors.
func tocText(children []*mdast.Node) []*mdast.Node {
	var out []*mdast.Node
	for _, ch := range children {
		switch ch.Kind {
		case mdast.FootnoteReference:
		case mdast.Link:
			out = append(out, tocText(ch.Children)...)
		default:
			cp := ch.Clone()
			cp.Children = tocText(ch.Children)
			out = append(out, cp)
		}
	}
	return mdast.MergeText(out)
}

// groupSections wraps every slugged heading and its following siblings
// into a Section. A heading at depth d closes every open section of depth
// d or deeper before opening its own.
func groupSections(c *compilation) {
	sectionize(c.root)
}

func sectionize(parent *mdast.Node) {
	if parent.Kind != mdast.Section && isBlockContainer(parent) {
		parent.Children = nestSections(parent.Children)
	}
	for _, child := range parent.Children {
		switch child.Kind {
		case mdast.List, mdast.DefinitionList:
			for _, item := range child.Children {
				sectionize(item)
			}
		default:
			if isBlockContainer(child) {
				sectionize(child)
			}
		}
	}
}

func nestSections(children []*mdast.Node) []*mdast.Node {
	var out []*mdast.Node
	open := arraystack.New()
	add := func(n *mdast.Node) {
		if top, ok := open.Peek(); ok {
			top.(*mdast.Node).Append(n)
			return
		}
		out = append(out, n)
	}
	for _, child := range children {
		if child.Kind != mdast.Heading || child.Slug == "" {
			add(child)
			continue
		}
		for {
			top, ok := open.Peek()
			if !ok || top.(*mdast.Node).Depth < child.Depth {
				break
			}
			open.Pop()
		}
		sec := mdast.New(mdast.Section, child)
		sec.Depth = child.Depth
		sec.Slug = child.Slug
		add(sec)
		open.Push(sec)
	}
	for _, n := range out {
		fixSectionSpan(n)
	}
	return out
}

// fixSectionSpan extends a section's position over its content.
func fixSectionSpan(n *mdast.Node) {
	if n.Kind != mdast.Section {
		return
	}
	for _, ch := range n.Children {
		fixSectionSpan(ch)
	}
	first, last := n.Children[0], n.Children[len(n.Children)-1]
	n.Pos = mdast.Position{Start: first.Pos.Start, End: last.Pos.End}
}
