package render

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/alnah/go-blogmark/internal/mdast"
)

func (s *state) inlines(nodes []*mdast.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		out = append(out, s.inline(n)...)
	}
	return out
}

func (s *state) inline(n *mdast.Node) []*html.Node {
	switch n.Kind {
	case mdast.Text:
		return []*html.Node{textNode(n.Literal)}
	case mdast.Code:
		return []*html.Node{wrap(element("code"), textNode(n.Literal))}
	case mdast.Emphasis:
		return []*html.Node{wrap(element("em"), s.inlines(n.Children)...)}
	case mdast.Strong:
		return []*html.Node{wrap(element("strong"), s.inlines(n.Children)...)}
	case mdast.HardBreak:
		return []*html.Node{element("br")}
	case mdast.RawHTML:
		return []*html.Node{textNode(n.Literal)}
	case mdast.Image:
		img := element("img", "src", n.Target, "alt", n.Literal)
		if n.Title != "" {
			setAttr(img, "title", n.Title)
		}
		return []*html.Node{img}
	case mdast.Link:
		return s.link(n)
	case mdast.Quote:
		return []*html.Node{s.quote(n)}
	case mdast.FootnoteReference:
		return []*html.Node{s.footnoteRef(n.Literal)}
	}
	if !n.Kind.IsInline() {
		return []*html.Node{s.block(n)}
	}
	panic(fmt.Sprintf("render: unhandled inline kind %v", n.Kind))
}

// link renders an anchor with its icons. Links without href keep the
// anchor so broken targets stay visible.
func (s *state) link(n *mdast.Node) []*html.Node {
	a := element("a")
	meta := n.Meta
	if meta == nil {
		meta = &mdast.LinkMeta{}
	}
	if meta.HasHref {
		setAttr(a, "href", meta.Href)
	}
	wrap(a, s.inlines(n.Children)...)
	if icon, ok := s.r.opts.TypeIcons[meta.TypeIcon]; ok && meta.TypeIcon != "" {
		wrap(a, iconNode(icon.Src, icon.Alt))
	}
	if icon, ok := s.r.opts.HostIcons[meta.HostIcon]; ok && meta.HostIcon != "" {
		wrap(a, iconNode(icon.Src, icon.Alt))
	}
	out := []*html.Node{a}
	if meta.HostText != "" {
		out = append(out, wrap(element("small", "class", "c-domain"), textNode("("+meta.HostText+")")))
	}
	return out
}

func iconNode(src, alt string) *html.Node {
	return element("img", "class", "c-link-icon", "src", src, "alt", alt, "width", "16", "height", "16")
}

// quote renders {{text}}(meta) as <q>, linked when a URL was given.
func (s *state) quote(n *mdast.Node) *html.Node {
	q := element("q")
	if n.QuoteLang != "" {
		setAttr(q, "lang", n.QuoteLang)
	}
	if cite := citeRef(n.QuoteData); cite != "" {
		setAttr(q, "cite", cite)
	}
	wrap(q, s.inlines(n.Children)...)
	if n.CiteURL != "" {
		return wrap(element("a", "href", n.CiteURL), q)
	}
	return q
}
