package mdast

import "fmt"

// Kind identifies the variant a Node holds. The set is closed: every switch
// over Kind in this module handles each value or falls into a panic default.
type Kind int

// Block kinds.
const (
	Document Kind = iota
	Paragraph
	Heading
	List
	ListItem
	Blockquote
	Box
	Section
	Table
	TableRow
	TableCell
	DefinitionList
	DefinitionTerm
	DefinitionDescription
	EmbeddedMediaGroup
	EmbeddedYouTubeGroup
	EmbeddedProductGroup
	MediaItem
	YouTubeItem
	ProductItem
	FootnoteDefinition
	TableOfContents
	CodeBlock
	ThematicBreak
	SectionBreak
	HTMLBlock
	EmptyMarker
	OmittedMarker

	// Inline kinds.
	Text
	Code
	Emphasis
	Strong
	Link
	Image
	Quote
	FootnoteReference
	HardBreak
	RawHTML

	kindCount
)

var kindNames = [...]string{
	Document:              "Document",
	Paragraph:             "Paragraph",
	Heading:               "Heading",
	List:                  "List",
	ListItem:              "ListItem",
	Blockquote:            "Blockquote",
	Box:                   "Box",
	Section:               "Section",
	Table:                 "Table",
	TableRow:              "TableRow",
	TableCell:             "TableCell",
	DefinitionList:        "DefinitionList",
	DefinitionTerm:        "DefinitionTerm",
	DefinitionDescription: "DefinitionDescription",
	EmbeddedMediaGroup:    "EmbeddedMediaGroup",
	EmbeddedYouTubeGroup:  "EmbeddedYouTubeGroup",
	EmbeddedProductGroup:  "EmbeddedProductGroup",
	MediaItem:             "MediaItem",
	YouTubeItem:           "YouTubeItem",
	ProductItem:           "ProductItem",
	FootnoteDefinition:    "FootnoteDefinition",
	TableOfContents:       "TableOfContents",
	CodeBlock:             "CodeBlock",
	ThematicBreak:         "ThematicBreak",
	SectionBreak:          "SectionBreak",
	HTMLBlock:             "HTMLBlock",
	EmptyMarker:           "EmptyMarker",
	OmittedMarker:         "OmittedMarker",
	Text:                  "Text",
	Code:                  "Code",
	Emphasis:              "Emphasis",
	Strong:                "Strong",
	Link:                  "Link",
	Image:                 "Image",
	Quote:                 "Quote",
	FootnoteReference:     "FootnoteReference",
	HardBreak:             "HardBreak",
	RawHTML:               "RawHTML",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsInline reports whether k is phrasing content.
func (k Kind) IsInline() bool {
	return k >= Text && k < kindCount
}

// IsDialect reports whether k is only ever produced by a recognizer pass,
// never by the baseline parse. Recognizers do not descend into such nodes
// a second time.
func (k Kind) IsDialect() bool {
	switch k {
	case Box, Section, EmbeddedMediaGroup, EmbeddedYouTubeGroup, EmbeddedProductGroup,
		MediaItem, YouTubeItem, ProductItem, TableOfContents, SectionBreak,
		EmptyMarker, OmittedMarker, Quote:
		return true
	}
	return false
}

// Align is a table column alignment.
type Align int

const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return ""
}

// HeadingData is populated for Heading and Section.
type HeadingData struct {
	Depth  int
	Slug   string
	Setext bool // underlined with = or - instead of leading #
}

// ListData is populated for List and ListItem.
type ListData struct {
	Ordered    bool
	Start      int
	BulletChar byte // '-', '*' or '+' in bullet lists
	Delimiter  byte // '.' or ')' in ordered lists
	Tight      bool
	Offset     int // ListItem: width of marker plus following spaces
	MarkerLen  int // ListItem: width of the marker itself
}

// CodeData is populated for CodeBlock.
type CodeData struct {
	Language  string
	Fenced    bool
	FenceChar byte
}

// LinkData is populated for Link and Image.
type LinkData struct {
	Target string
	Title  string
	Inline bool // written as [text](target) rather than via a reference
	Meta   *LinkMeta
}

// QuoteData is populated for Blockquote and Quote.
type QuoteData struct {
	QuoteLang string
	CiteText  string
	CiteURL   string
	ISBN      *ISBN
}

// EmbedData is populated for MediaItem, YouTubeItem and ProductItem.
type EmbedData struct {
	Name    string // media path, YouTube video id or product id
	Caption string
	Width   int
	Height  int
	StartAt int  // YouTube start offset in seconds
	Video   bool // MediaItem refers to a video file
	ImageID string
}

// TableCellData is populated for TableRow and TableCell.
type TableCellData struct {
	Header bool
	Align  Align
}

// Node is one element of a Markdown tree. Kind selects which of the
// embedded payload groups is meaningful; the others stay zero.
type Node struct {
	Kind     Kind
	Pos      Position
	Children []*Node

	// Literal holds the text of Text, Code, CodeBlock, HTMLBlock and RawHTML
	// nodes, the name of a Box and the id of footnote nodes.
	Literal string

	// Delim is the marker character of Emphasis and Strong.
	Delim byte

	HeadingData
	ListData
	CodeData
	LinkData
	QuoteData
	EmbedData
	TableCellData
}

// New returns a node of kind k with the given children.
func New(k Kind, children ...*Node) *Node {
	return &Node{Kind: k, Children: children}
}

// NewText returns a Text node.
func NewText(value string, pos Position) *Node {
	return &Node{Kind: Text, Literal: value, Pos: pos}
}

// Append adds children at the end of n.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Splice replaces n.Children[start:end] with repl.
func (n *Node) Splice(start, end int, repl ...*Node) {
	tail := append([]*Node(nil), n.Children[end:]...)
	n.Children = append(append(n.Children[:start], repl...), tail...)
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Meta != nil {
		m := *n.Meta
		c.Meta = &m
	}
	if n.ISBN != nil {
		i := *n.ISBN
		c.ISBN = &i
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// LinkMeta is the outcome of classifying a link target.
// At most one of HostIcon and HostText is set.
type LinkMeta struct {
	Href     string
	HasHref  bool
	TypeIcon string
	HostIcon string
	HostText string
}

// ISBN is an ISBN-10 or ISBN-13 as written, with its checksum result.
type ISBN struct {
	Value string
	Valid bool
}

// QuoteMeta is the outcome of classifying the parenthetical after {{...}}.
type QuoteMeta struct {
	Lang    string
	CiteURL string
	ISBN    *ISBN
}
