// Package lint checks Markdown source against the blog's style guide.
//
// Rules run read-only over the baseline tree, before any dialect
// rewriting, and report positioned diagnostics. Rules are independent of
// each other; Run orders the combined result by source position.
package lint

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alnah/go-blogmark/internal/baseline"
	"github.com/alnah/go-blogmark/internal/mdast"
)

// ErrUnknownRule indicates a configuration names a rule that does not exist.
var ErrUnknownRule = errors.New("unknown lint rule")

// DefaultMaxHeadingDepth is the deepest heading allowed by default.
const DefaultMaxHeadingDepth = 3

// Severity grades a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one positioned finding.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Reason   string
	Pos      mdast.Position

	order int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d %s %s (%s)", d.Pos.Start.Line, d.Pos.Start.Column, d.Severity, d.Reason, d.RuleID)
}

// Rule is a registered check.
type Rule struct {
	ID       string
	Severity Severity
	Summary  string

	check func(p *pass)
}

// Config selects and parameterizes rules.
type Config struct {
	// MaxHeadingDepth is the deepest heading heading-depth-max accepts.
	MaxHeadingDepth int

	// Languages is the allow-list for code fence info strings.
	Languages []string

	// Disabled lists rule ids that are skipped.
	Disabled []string
}

// DefaultConfig returns a Config with every rule enabled.
func DefaultConfig() Config {
	return Config{MaxHeadingDepth: DefaultMaxHeadingDepth}
}

// Validate checks that every disabled rule exists.
func (c Config) Validate() error {
	for _, id := range c.Disabled {
		if _, ok := Lookup(id); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownRule, id)
		}
	}
	return nil
}

// registry is the static rule list. Its order breaks position ties.
var registry = []Rule{
	{ID: "no-hard-break", Severity: SeverityError, Summary: "hard line breaks are not allowed", check: checkHardBreak},
	{ID: "no-image", Severity: SeverityError, Summary: "image syntax is not allowed; use @file embeds", check: checkImage},
	{ID: "no-thematic-break", Severity: SeverityError, Summary: "thematic breaks are not allowed", check: checkThematicBreak},
	{ID: "no-definition", Severity: SeverityError, Summary: "link reference definitions are not allowed", check: checkDefinition},
	{ID: "no-html", Severity: SeverityError, Summary: "raw HTML is not allowed", check: checkHTML},
	{ID: "blank-line-between-blocks", Severity: SeverityWarning, Summary: "blocks are separated by a blank line", check: checkBlankLineBetweenBlocks},
	{ID: "no-multiple-blank-lines", Severity: SeverityWarning, Summary: "at most one consecutive blank line", check: checkMultipleBlankLines},
	{ID: "first-heading-depth", Severity: SeverityError, Summary: "the first heading has depth 1", check: checkFirstHeadingDepth},
	{ID: "heading-increment", Severity: SeverityError, Summary: "heading depth grows one level at a time", check: checkHeadingIncrement},
	{ID: "heading-depth-max", Severity: SeverityError, Summary: "heading depth stays within the configured limit", check: checkHeadingDepthMax},
	{ID: "heading-style", Severity: SeverityWarning, Summary: "headings use the # style", check: checkHeadingStyle},
	{ID: "no-duplicate-heading", Severity: SeverityWarning, Summary: "sibling headings have distinct text", check: checkDuplicateHeading},
	{ID: "no-empty-section", Severity: SeverityWarning, Summary: "every section has content besides its heading", check: checkEmptySection},
	{ID: "list-marker", Severity: SeverityWarning, Summary: "bullet lists use -", check: checkListMarker},
	{ID: "ordered-list-delimiter", Severity: SeverityWarning, Summary: "ordered lists use N.", check: checkOrderedListDelimiter},
	{ID: "ordered-list-start", Severity: SeverityWarning, Summary: "ordered lists start at 1", check: checkOrderedListStart},
	{ID: "list-item-indent", Severity: SeverityWarning, Summary: "one space between list marker and content", check: checkListItemIndent},
	{ID: "no-loose-list", Severity: SeverityWarning, Summary: "list items are not separated by blank lines", check: checkLooseList},
	{ID: "blockquote-indent", Severity: SeverityWarning, Summary: "one space after the blockquote marker", check: checkBlockquoteIndent},
	{ID: "blockquote-lazy-line", Severity: SeverityError, Summary: "every quoted line starts with >", check: checkBlockquoteLazyLine},
	{ID: "no-indented-code", Severity: SeverityError, Summary: "code blocks are fenced", check: checkIndentedCode},
	{ID: "code-fence-marker", Severity: SeverityWarning, Summary: "code fences use backticks", check: checkCodeFenceMarker},
	{ID: "code-fence-language", Severity: SeverityError, Summary: "code fences name an allowed language", check: checkCodeFenceLanguage},
	{ID: "table-pipe", Severity: SeverityWarning, Summary: "table rows start and end with |", check: checkTablePipe},
	{ID: "table-padding", Severity: SeverityWarning, Summary: "table cells are padded with one space", check: checkTablePadding},
	{ID: "no-link-title", Severity: SeverityWarning, Summary: "links have no title", check: checkLinkTitle},
	{ID: "no-reference-link", Severity: SeverityError, Summary: "links are written inline", check: checkReferenceLink},
	{ID: "emphasis-marker", Severity: SeverityWarning, Summary: "emphasis uses *", check: checkEmphasisMarker},
	{ID: "strong-marker", Severity: SeverityWarning, Summary: "strong emphasis uses **", check: checkStrongMarker},
	{ID: "no-empty-link", Severity: SeverityError, Summary: "links have text and a target", check: checkEmptyLink},
}

// Rules returns the registered rules in registry order.
func Rules() []Rule {
	out := make([]Rule, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a rule by id.
func Lookup(id string) (Rule, bool) {
	for _, r := range registry {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// pass is the state of one Run. Rules report through it.
type pass struct {
	tree  *baseline.Tree
	cfg   Config
	langs map[string]bool

	rule  Rule
	order int
	diags []Diagnostic

	code map[int]bool
}

func (p *pass) report(pos mdast.Position, format string, args ...any) {
	if pos.IsZero() {
		pos = p.tree.Lines.LineSpan(1)
	}
	p.diags = append(p.diags, Diagnostic{
		RuleID:   p.rule.ID,
		Severity: p.rule.Severity,
		Reason:   fmt.Sprintf(format, args...),
		Pos:      pos,
		order:    p.order,
	})
}

// Run lints tree and returns its diagnostics ordered by line, column and
// rule registration order. The result is never nil.
func Run(tree *baseline.Tree, cfg Config) []Diagnostic {
	if cfg.MaxHeadingDepth <= 0 {
		cfg.MaxHeadingDepth = DefaultMaxHeadingDepth
	}
	disabled := make(map[string]bool, len(cfg.Disabled))
	for _, id := range cfg.Disabled {
		disabled[id] = true
	}
	p := &pass{tree: tree, cfg: cfg, langs: make(map[string]bool, len(cfg.Languages))}
	for _, l := range cfg.Languages {
		p.langs[strings.ToLower(l)] = true
	}

	for i, r := range registry {
		if disabled[r.ID] {
			continue
		}
		p.rule, p.order = r, i
		r.check(p)
	}

	diags := p.diags
	if diags == nil {
		diags = []Diagnostic{}
	}
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Pos.Start.Line != b.Pos.Start.Line {
			return a.Pos.Start.Line < b.Pos.Start.Line
		}
		if a.Pos.Start.Column != b.Pos.Start.Column {
			return a.Pos.Start.Column < b.Pos.Start.Column
		}
		return a.order < b.order
	})
	return diags
}

// nodes returns every node of kind k in document order.
func (p *pass) nodes(k mdast.Kind) []*mdast.Node {
	return mdast.Find(p.tree.Root, func(n *mdast.Node) bool { return n.Kind == k })
}

// codeLines returns the set of source lines covered by code blocks.
func (p *pass) codeLines() map[int]bool {
	if p.code != nil {
		return p.code
	}
	p.code = make(map[int]bool)
	for _, n := range p.nodes(mdast.CodeBlock) {
		for l := n.Pos.Start.Line; l <= n.Pos.End.Line && l > 0; l++ {
			p.code[l] = true
		}
	}
	return p.code
}

// lineSpan returns the position of 1-based line n starting at byte col.
func (p *pass) lineSpan(n, col int) mdast.Position {
	start := p.tree.Lines.LineStart(n)
	return p.tree.Lines.Span(start+col, start+len(p.tree.Lines.Line(n)))
}
