// Package dialect rewrites a baseline mdast tree into the blog dialect.
//
// Recognition runs as a fixed, ordered list of passes built once by
// NewPipeline. Each pass scans the tree as left by the previous ones and
// replaces matched node ranges with typed dialect nodes. Passes never
// return errors: a malformed construct is simply left as ordinary Markdown.
package dialect

import (
	"github.com/alnah/go-blogmark/internal/mdast"
)

// Default option values.
const (
	DefaultMaxHeadingDepth = 3
	DefaultSlugPrefix      = "section-"
)

// Icon is an image shown next to a link.
type Icon struct {
	Src string
	Alt string
}

// Options configures recognition.
type Options struct {
	// MaxHeadingDepth is the deepest heading that opens a section. Deeper
	// headings become section breaks.
	MaxHeadingDepth int

	// SlugPrefix is prepended to every heading slug. In-page links must
	// start with "#" followed by this prefix.
	SlugPrefix string

	// HostIcons maps a host name to its link icon. Parent domains match
	// when the exact host is missing.
	HostIcons map[string]Icon

	// AmazonTrackingID is the affiliate tag added to amazon: links.
	AmazonTrackingID string
}

// DefaultOptions returns Options with the default heading depth and prefix.
func DefaultOptions() Options {
	return Options{
		MaxHeadingDepth: DefaultMaxHeadingDepth,
		SlugPrefix:      DefaultSlugPrefix,
	}
}

// Pass is one named recognizer step.
type Pass struct {
	Name  string
	apply func(c *compilation)
}

// Pipeline is the ordered pass list. It holds no per-call state and is
// safe for concurrent use.
type Pipeline struct {
	opts   Options
	passes []Pass
}

// NewPipeline builds the pass list for opts.
func NewPipeline(opts Options) *Pipeline {
	if opts.MaxHeadingDepth <= 0 {
		opts.MaxHeadingDepth = DefaultMaxHeadingDepth
	}
	return &Pipeline{
		opts: opts,
		passes: []Pass{
			{Name: "footnotes", apply: collectFootnotes},
			{Name: "boxes", apply: recognizeBoxes},
			{Name: "blockquotes", apply: recognizeBlockquotes},
			{Name: "embeds", apply: recognizeEmbeds},
			{Name: "inlines", apply: recognizeInlines},
			{Name: "headings", apply: recognizeHeadings},
			{Name: "sections", apply: groupSections},
			{Name: "empty-paragraphs", apply: markEmptyParagraphs},
		},
	}
}

// Passes returns the pass names in execution order.
func (p *Pipeline) Passes() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name
	}
	return names
}

// Options returns the options the pipeline was built with.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Result is a compiled document.
type Result struct {
	Root *mdast.Node

	// Footnotes holds the resolved footnote definitions in source order.
	Footnotes []*mdast.Node

	byID map[string]*mdast.Node
}

// Footnote returns the definition for id.
func (r *Result) Footnote(id string) (*mdast.Node, bool) {
	n, ok := r.byID[id]
	return n, ok
}

// compilation is the per-call state shared by the passes.
type compilation struct {
	opts      Options
	root      *mdast.Node
	footnotes []*mdast.Node
	byID      map[string]*mdast.Node
	slugs     map[string]bool
}

// Compile rewrites a copy of root. root itself is left untouched.
func (p *Pipeline) Compile(root *mdast.Node) *Result {
	c := &compilation{
		opts:  p.opts,
		root:  root.Clone(),
		byID:  make(map[string]*mdast.Node),
		slugs: make(map[string]bool),
	}
	for _, pass := range p.passes {
		pass.apply(c)
	}
	return &Result{Root: c.root, Footnotes: c.footnotes, byID: c.byID}
}

// Compile runs a pipeline built from opts over root.
func Compile(root *mdast.Node, opts Options) *Result {
	return NewPipeline(opts).Compile(root)
}

// isBlockContainer reports whether n holds block children that
// recognizers should scan.
func isBlockContainer(n *mdast.Node) bool {
	switch n.Kind {
	case mdast.Document, mdast.Blockquote, mdast.ListItem, mdast.Box, mdast.Section,
		mdast.DefinitionDescription, mdast.FootnoteDefinition:
		return true
	}
	return false
}

// eachBlockContainer calls fn for root and every nested block container,
// outer containers first. fn may replace parent.Children.
func eachBlockContainer(root *mdast.Node, fn func(parent *mdast.Node)) {
	if !isBlockContainer(root) {
		return
	}
	fn(root)
	for _, c := range root.Children {
		switch c.Kind {
		case mdast.List, mdast.DefinitionList:
			for _, item := range c.Children {
				eachBlockContainer(item, fn)
			}
		default:
			eachBlockContainer(c, fn)
		}
	}
}

// trees returns the document followed by the footnote definitions, which
// live outside the document flow once collected.
func (c *compilation) trees() []*mdast.Node {
	return append([]*mdast.Node{c.root}, c.footnotes...)
}
