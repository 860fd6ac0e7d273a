package blogmark

import (
	"errors"

	"github.com/alnah/go-blogmark/internal/baseline"
	"github.com/alnah/go-blogmark/internal/lint"
	"github.com/alnah/go-blogmark/internal/render"
)

// Sentinel errors for library operations. Document content never produces
// an error; only undecodable input and unusable configuration do.
var (
	// Input errors.
	ErrInvalidUTF8 = baseline.ErrInvalidUTF8

	// Configuration errors, reported by NewCompiler.
	ErrEmptyLanguageList   = render.ErrEmptyLanguageList
	ErrEmptyIconTable      = render.ErrEmptyIconTable
	ErrInvalidThumbnailURL = render.ErrInvalidThumbnailURL
	ErrInvalidHeadingDepth = errors.New("invalid heading depth")
	ErrInvalidSlugPrefix   = errors.New("invalid slug prefix")
	ErrInvalidMediaBounds  = errors.New("invalid media bounds")
	ErrUnknownRule         = lint.ErrUnknownRule

	// ErrInternal wraps a recovered panic.
	ErrInternal = errors.New("internal error")
)
