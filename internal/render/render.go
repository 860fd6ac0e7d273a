// Package render turns a compiled dialect tree into an HTML fragment.
//
// Every mdast kind has one handler producing golang.org/x/net/html nodes;
// the node tree is serialized with html.Render, which escapes all text and
// attribute values. Footnote numbering and syntax highlighting happen here
// because both depend on the final document order.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-blogmark/internal/dialect"
)

// Sentinel errors for renderer configuration.
var (
	ErrEmptyLanguageList   = errors.New("code language list is empty")
	ErrEmptyIconTable      = errors.New("link icon table is empty")
	ErrInvalidThumbnailURL = errors.New("invalid thumbnail URL template")
)

// Default media bounds and thumbnail qualities.
const (
	DefaultMaxThumbWidth  = 1280
	DefaultMaxThumbHeight = 1280

	youtubeWidth  = 640
	youtubeHeight = 360
)

// Options configures markup generation.
type Options struct {
	// Languages is the code-block language allow-list. Only listed
	// languages are highlighted.
	Languages []string

	// HostIcons and TypeIcons resolve the icon keys set by link
	// classification.
	HostIcons map[string]dialect.Icon
	TypeIcons map[string]dialect.Icon

	// AmazonTrackingID is the affiliate tag of product cards.
	AmazonTrackingID string

	// ThumbnailURL is the image service template. It must contain {path}
	// and may contain {type}, {w}, {h} and {quality}.
	ThumbnailURL string

	// OriginURL prefixes the path of video files.
	OriginURL string

	MaxThumbWidth  int
	MaxThumbHeight int
}

// Validate reports configuration that leaves the renderer unable to work.
func (o Options) Validate() error {
	if len(o.Languages) == 0 {
		return ErrEmptyLanguageList
	}
	if len(o.HostIcons) == 0 {
		return fmt.Errorf("%w: no host icons", ErrEmptyIconTable)
	}
	for _, key := range []string{dialect.TypeIconPDF, dialect.TypeIconAmazon} {
		if _, ok := o.TypeIcons[key]; !ok {
			return fmt.Errorf("%w: missing %q type icon", ErrEmptyIconTable, key)
		}
	}
	if !strings.Contains(o.ThumbnailURL, "{path}") {
		return fmt.Errorf("%w: %q has no {path} placeholder", ErrInvalidThumbnailURL, o.ThumbnailURL)
	}
	return nil
}

// Renderer serializes compiled documents. It is safe for concurrent use.
type Renderer struct {
	opts      Options
	languages map[string]bool
}

// New validates opts and returns a Renderer.
func New(opts Options) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxThumbWidth <= 0 {
		opts.MaxThumbWidth = DefaultMaxThumbWidth
	}
	if opts.MaxThumbHeight <= 0 {
		opts.MaxThumbHeight = DefaultMaxThumbHeight
	}
	langs := make(map[string]bool, len(opts.Languages))
	for _, l := range opts.Languages {
		langs[strings.ToLower(l)] = true
	}
	return &Renderer{opts: opts, languages: langs}, nil
}

// state is the per-document render state.
type state struct {
	r   *Renderer
	res *dialect.Result

	// footnote numbering in first-reference order
	fnOrder []string
	fnNum   map[string]int
	fnRefs  map[string]int

	codeBlocks int
}

// Render returns the HTML fragment for res.
func (r *Renderer) Render(res *dialect.Result) (string, error) {
	s := &state{r: r, res: res, fnNum: make(map[string]int), fnRefs: make(map[string]int)}
	nodes := s.blocks(res.Root.Children)
	if fn := s.footnotes(); fn != nil {
		nodes = append(nodes, fn)
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("serializing %s: %w", n.Data, err)
		}
	}
	return buf.String(), nil
}
