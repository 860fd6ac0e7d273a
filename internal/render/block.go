package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-blogmark/internal/mdast"
)

// omittedText is shown in place of a "~" line inside a blockquote.
const omittedText = "(omitted)"

func (s *state) blocks(nodes []*mdast.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		if h := s.block(n); h != nil {
			out = append(out, h)
		}
	}
	return out
}

func (s *state) block(n *mdast.Node) *html.Node {
	switch n.Kind {
	case mdast.Document:
		return wrap(element("div"), s.blocks(n.Children)...)
	case mdast.Paragraph:
		return wrap(element("p"), s.inlines(n.Children)...)
	case mdast.Heading:
		h := element("h" + strconv.Itoa(min(max(n.Depth, 1), 6)))
		if n.Slug != "" {
			setAttr(h, "id", n.Slug)
		}
		return wrap(h, s.inlines(n.Children)...)
	case mdast.Section:
		return s.section(n)
	case mdast.List:
		return s.list(n)
	case mdast.ListItem:
		return s.listItem(n, true)
	case mdast.Blockquote:
		return s.blockquote(n)
	case mdast.Box:
		return wrap(element("div", "class", "p-box p-box--"+n.Literal), s.blocks(n.Children)...)
	case mdast.Table:
		return s.table(n)
	case mdast.TableRow, mdast.TableCell:
		return wrap(element("p"), s.inlines(n.Children)...)
	case mdast.DefinitionList:
		return wrap(element("dl"), s.blocks(n.Children)...)
	case mdast.DefinitionTerm:
		return wrap(element("dt"), s.inlines(n.Children)...)
	case mdast.DefinitionDescription:
		return wrap(element("dd"), s.blocks(n.Children)...)
	case mdast.EmbeddedMediaGroup:
		return wrap(element("div", "class", "p-embed-group"), s.blocks(n.Children)...)
	case mdast.EmbeddedYouTubeGroup:
		return wrap(element("div", "class", "p-embed-group p-embed-group--youtube"), s.blocks(n.Children)...)
	case mdast.EmbeddedProductGroup:
		return s.products(n)
	case mdast.MediaItem:
		return s.media(n)
	case mdast.YouTubeItem:
		return s.youtube(n)
	case mdast.ProductItem:
		return s.product(n)
	case mdast.FootnoteDefinition:
		return nil
	case mdast.TableOfContents:
		return s.toc(n)
	case mdast.CodeBlock:
		return s.codeBlock(n)
	case mdast.ThematicBreak:
		return element("hr")
	case mdast.SectionBreak:
		return element("hr", "class", "p-section-break")
	case mdast.HTMLBlock:
		return wrap(element("p", "class", "p-html"), textNode(strings.TrimRight(n.Literal, "\n")))
	case mdast.EmptyMarker:
		return nil
	case mdast.OmittedMarker:
		return wrap(element("p", "class", "p-quote__omit"), textNode(omittedText))
	}
	if n.Kind.IsInline() {
		return wrap(element("p"), s.inline(n)...)
	}
	panic(fmt.Sprintf("render: unhandled block kind %v", n.Kind))
}

// section renders the section's own heading without id; the anchor is
// the section element.
func (s *state) section(n *mdast.Node) *html.Node {
	sec := element("section", "class", "p-section", "id", n.Slug)
	for i, child := range n.Children {
		if i == 0 && child.Kind == mdast.Heading {
			h := element("h" + strconv.Itoa(min(max(child.Depth, 1), 6)))
			wrap(sec, wrap(h, s.inlines(child.Children)...))
			continue
		}
		wrap(sec, s.block(child))
	}
	return sec
}

func (s *state) list(n *mdast.Node) *html.Node {
	tag := "ul"
	if n.Ordered {
		tag = "ol"
	}
	l := element(tag)
	if n.Ordered && n.Start != 1 {
		setAttr(l, "start", strconv.Itoa(n.Start))
	}
	for _, item := range n.Children {
		wrap(l, s.listItem(item, n.Tight))
	}
	return l
}

// listItem renders an item. Paragraphs of tight lists are unwrapped.
func (s *state) listItem(n *mdast.Node, tight bool) *html.Node {
	li := element("li")
	for _, child := range n.Children {
		if tight && child.Kind == mdast.Paragraph {
			wrap(li, s.inlines(child.Children)...)
			continue
		}
		wrap(li, s.block(child))
	}
	return li
}

func (s *state) blockquote(n *mdast.Node) *html.Node {
	bq := element("blockquote")
	if n.QuoteLang != "" {
		setAttr(bq, "lang", n.QuoteLang)
	}
	if cite := citeRef(n.QuoteData); cite != "" {
		setAttr(bq, "cite", cite)
	}
	wrap(bq, s.blocks(n.Children)...)

	caption := citeCaption(n.QuoteData)
	if caption == nil {
		return bq
	}
	return wrap(element("figure", "class", "p-quote"), bq, wrap(element("figcaption"), caption))
}

// citeRef returns the cite attribute: the URL, else a valid ISBN as URN.
func citeRef(q mdast.QuoteData) string {
	if q.CiteURL != "" {
		return q.CiteURL
	}
	if q.ISBN != nil && q.ISBN.Valid {
		return "urn:ISBN:" + q.ISBN.Value
	}
	return ""
}

func citeCaption(q mdast.QuoteData) *html.Node {
	text := q.CiteText
	switch {
	case text != "":
	case q.CiteURL != "":
		text = q.CiteURL
	case q.ISBN != nil && q.ISBN.Valid:
		text = "ISBN " + q.ISBN.Value
	default:
		return nil
	}
	cite := element("cite")
	if q.CiteURL != "" {
		return wrap(cite, wrap(element("a", "href", q.CiteURL), textNode(text)))
	}
	return wrap(cite, textNode(text))
}

func (s *state) table(n *mdast.Node) *html.Node {
	t := element("table")
	var head, body *html.Node
	for _, row := range n.Children {
		tr := element("tr")
		for _, cell := range row.Children {
			tag := "td"
			if row.Header {
				tag = "th"
			}
			c := element(tag)
			if a := cell.Align.String(); a != "" {
				setAttr(c, "style", "text-align:"+a)
			}
			wrap(tr, wrap(c, s.inlines(cell.Children)...))
		}
		if row.Header {
			if head == nil {
				head = element("thead")
			}
			wrap(head, tr)
			continue
		}
		if body == nil {
			body = element("tbody")
		}
		wrap(body, tr)
	}
	return wrap(t, head, body)
}

func (s *state) toc(n *mdast.Node) *html.Node {
	ol := element("ol")
	for _, entry := range n.Children {
		a := element("a")
		if entry.Meta != nil && entry.Meta.HasHref {
			setAttr(a, "href", entry.Meta.Href)
		}
		wrap(ol, wrap(element("li"), wrap(a, s.inlines(entry.Children)...)))
	}
	return wrap(element("nav", "class", "p-toc"), ol)
}
