// Package baseline turns Markdown text into the generic mdast tree that both
// the lint engine and the dialect compiler consume.
//
// Block and inline tokenizing is delegated to goldmark; this package only
// converts goldmark's AST, attaches source positions and records the raw
// syntax facts (marker characters, fence style, reference links) that the
// lint rules need and goldmark does not keep.
package baseline

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-blogmark/internal/mdast"
)

// ErrInvalidUTF8 indicates the input is not decodable as UTF-8.
var ErrInvalidUTF8 = errors.New("input is not valid UTF-8")

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Definition is a link reference definition ([label]: url) found in the source.
type Definition struct {
	Label       string
	Destination string
	Pos         mdast.Position
}

// Tree is the result of a baseline parse.
type Tree struct {
	Root        *mdast.Node
	Source      []byte
	Lines       *mdast.LineIndex
	Definitions []Definition
}

// Parser wraps a configured goldmark parser. It is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a Parser with tables, definition lists and footnotes.
// Footnote numbering is left to the renderer, so goldmark's footnote AST
// transformer is deliberately not registered.
func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.DefinitionList,
		),
		goldmark.WithParserOptions(
			parser.WithBlockParsers(util.Prioritized(extension.NewFootnoteBlockParser(), 999)),
			parser.WithInlineParsers(util.Prioritized(extension.NewFootnoteParser(), 101)),
		),
	)
	return &Parser{md: md}
}

// Parse parses src into a fresh Tree.
func (p *Parser) Parse(src []byte) (*Tree, error) {
	if !utf8.Valid(src) {
		return nil, ErrInvalidUTF8
	}
	src = normalizeLineEndings(src)

	pc := parser.NewContext()
	doc := p.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

	lines := mdast.NewLineIndex(src)
	c := newConverter(src, lines)
	c.indexFootnotes(doc)
	root := c.document(doc)
	defs := restoreCaretDefinitions(root, findDefinitions(pc.References(), lines), lines)

	return &Tree{
		Root:        root,
		Source:      src,
		Lines:       lines,
		Definitions: defs,
	}, nil
}

// Parse parses src with a default Parser.
func Parse(src []byte) (*Tree, error) {
	return defaultParser.Parse(src)
}

var defaultParser = NewParser()

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(src []byte) []byte {
	if !bytes.ContainsRune(src, '\r') {
		return src
	}
	return crlfOrCR.ReplaceAll(src, []byte("\n"))
}

// findDefinitions locates the source line of each link reference definition.
// goldmark drops definitions from the AST and keeps only label and target.
func findDefinitions(refs []parser.Reference, lines *mdast.LineIndex) []Definition {
	if len(refs) == 0 {
		return nil
	}
	defs := make([]Definition, 0, len(refs))
	used := make(map[int]bool)
	for _, ref := range refs {
		label := strings.ToLower(string(ref.Label()))
		def := Definition{Label: string(ref.Label()), Destination: string(ref.Destination())}
		for n := 1; n <= lines.LineCount(); n++ {
			if used[n] {
				continue
			}
			line := strings.TrimLeft(lines.Line(n), " >")
			if strings.HasPrefix(strings.ToLower(line), "["+label+"]:") {
				used[n] = true
				def.Pos = lines.LineSpan(n)
				break
			}
		}
		defs = append(defs, def)
	}
	return defs
}

// restoreCaretDefinitions puts "[^...]: text" lines that goldmark took as
// link reference definitions back into the tree as literal paragraphs and
// returns the remaining definitions.
func restoreCaretDefinitions(root *mdast.Node, defs []Definition, lines *mdast.LineIndex) []Definition {
	kept := defs[:0]
	for _, d := range defs {
		if !strings.HasPrefix(d.Label, "^") {
			kept = append(kept, d)
			continue
		}
		if d.Pos.IsZero() {
			continue
		}
		line := lines.Line(d.Pos.Start.Line)
		text := strings.TrimLeft(line, " >")
		start := d.Pos.Start.Offset + len(line) - len(text)
		p := mdast.New(mdast.Paragraph, mdast.NewText(text, lines.Span(start, d.Pos.End.Offset)))
		p.Pos = lines.Span(start, d.Pos.End.Offset)
		insertBlock(root, p)
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// insertBlock adds b to the innermost block container holding its start,
// in source order.
func insertBlock(root, b *mdast.Node) {
	at := b.Pos.Start.Offset
	parent := root
descend:
	for {
		for _, child := range parent.Children {
			switch child.Kind {
			case mdast.Blockquote, mdast.List, mdast.ListItem, mdast.FootnoteDefinition, mdast.DefinitionDescription:
				if child.Pos.Start.Offset <= at && at < child.Pos.End.Offset {
					parent = child
					continue descend
				}
			}
		}
		break
	}
	i := 0
	for i < len(parent.Children) && parent.Children[i].Pos.Start.Offset < at {
		i++
	}
	parent.Splice(i, i, b)
}
