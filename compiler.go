package blogmark

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-blogmark/internal/baseline"
	"github.com/alnah/go-blogmark/internal/dialect"
	"github.com/alnah/go-blogmark/internal/lint"
	"github.com/alnah/go-blogmark/internal/mdast"
	"github.com/alnah/go-blogmark/internal/render"
	"github.com/alnah/go-blogmark/internal/titlemark"
)

// Heading depth bounds.
const (
	MinHeadingDepth = 1
	MaxHeadingDepth = 6
)

// Compiler turns entries into HTML fragments and diagnostics. It holds no
// per-call state and is safe for concurrent use.
type Compiler struct {
	parser   *baseline.Parser
	pipeline *dialect.Pipeline
	renderer *render.Renderer
	lintCfg  lint.Config
}

// Result is a rendered entry.
type Result struct {
	// HTML is a fragment with no enclosing wrapper element.
	HTML string

	// Diagnostics is never nil; an entry without findings has an empty list.
	Diagnostics []Diagnostic
}

// NewCompiler creates a Compiler from the embedded defaults and opts.
// Returns an error when the configuration leaves the renderer unable to
// produce output.
func NewCompiler(opts ...Option) (*Compiler, error) {
	cfg := defaultCompilerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.maxHeadingDepth < MinHeadingDepth || cfg.maxHeadingDepth > MaxHeadingDepth {
		return nil, fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidHeadingDepth, cfg.maxHeadingDepth, MinHeadingDepth, MaxHeadingDepth)
	}
	if strings.ContainsAny(cfg.slugPrefix, " \t\n#") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlugPrefix, cfg.slugPrefix)
	}
	if cfg.maxWidth < 0 || cfg.maxHeight < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidMediaBounds, cfg.maxWidth, cfg.maxHeight)
	}

	hostIcons := dialectIcons(cfg.hostIcons)
	renderer, err := render.New(render.Options{
		Languages:        cfg.languages,
		HostIcons:        hostIcons,
		TypeIcons:        dialectIcons(cfg.typeIcons),
		AmazonTrackingID: cfg.amazonTrackingID,
		ThumbnailURL:     cfg.thumbnailURL,
		OriginURL:        cfg.originURL,
		MaxThumbWidth:    cfg.maxWidth,
		MaxThumbHeight:   cfg.maxHeight,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing renderer: %w", err)
	}

	lintCfg := lint.Config{
		MaxHeadingDepth: cfg.maxHeadingDepth,
		Languages:       cfg.languages,
		Disabled:        cfg.disabledRules,
	}
	if err := lintCfg.Validate(); err != nil {
		return nil, err
	}

	return &Compiler{
		parser: baseline.NewParser(),
		pipeline: dialect.NewPipeline(dialect.Options{
			MaxHeadingDepth:  cfg.maxHeadingDepth,
			SlugPrefix:       cfg.slugPrefix,
			HostIcons:        hostIcons,
			AmazonTrackingID: cfg.amazonTrackingID,
		}),
		renderer: renderer,
		lintCfg:  lintCfg,
	}, nil
}

func dialectIcons(in map[string]Icon) map[string]dialect.Icon {
	out := make(map[string]dialect.Icon, len(in))
	for k, v := range in {
		out[k] = dialect.Icon{Src: v.Src, Alt: v.Alt}
	}
	return out
}

// Render compiles markdown to HTML and lints it. The context is checked
// between stages only. Recovers from internal panics so that one entry
// cannot take down a batch.
func (c *Compiler) Render(ctx context.Context, markdown string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := c.parser.Parse([]byte(markdown))
	if err != nil {
		return nil, err
	}

	diags := lint.Run(tree, c.lintCfg)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compiled := c.pipeline.Compile(tree.Root)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	html, err := c.renderer.Render(compiled)
	if err != nil {
		return nil, fmt.Errorf("rendering HTML: %w", err)
	}

	return &Result{HTML: html, Diagnostics: convertDiagnostics(diags)}, nil
}

// Lint checks markdown without rendering it.
func (c *Compiler) Lint(markdown string) (diags []Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			diags = nil
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	tree, err := c.parser.Parse([]byte(markdown))
	if err != nil {
		return nil, err
	}
	return convertDiagnostics(lint.Run(tree, c.lintCfg)), nil
}

// Tree returns the node tree of markdown for inspection: the baseline
// CommonMark tree, or the tree after dialect recognition when compiled
// is true.
func (c *Compiler) Tree(markdown string, compiled bool) (*mdast.Node, error) {
	tree, err := c.parser.Parse([]byte(markdown))
	if err != nil {
		return nil, err
	}
	if !compiled {
		return tree.Root, nil
	}
	return c.pipeline.Compile(tree.Root).Root, nil
}

// Passes returns the dialect recognition passes in execution order.
func (c *Compiler) Passes() []string {
	return c.pipeline.Passes()
}

// MarkTitle compiles a short string such as an entry title: the text is
// escaped and only `code` spans are recognized.
func MarkTitle(s string) string {
	return titlemark.Mark(s)
}
