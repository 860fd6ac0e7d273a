package blogmark

import (
	"maps"

	"github.com/alnah/go-blogmark/internal/config"
)

// Icon is an image shown next to a link.
type Icon struct {
	Src string
	Alt string
}

// Option configures a Compiler.
type Option func(*compilerConfig)

// compilerConfig holds the settings NewCompiler validates.
type compilerConfig struct {
	maxHeadingDepth  int
	slugPrefix       string
	languages        []string
	hostIcons        map[string]Icon
	typeIcons        map[string]Icon
	amazonTrackingID string
	thumbnailURL     string
	originURL        string
	maxWidth         int
	maxHeight        int
	disabledRules    []string
}

// defaultCompilerConfig mirrors the embedded default preset.
func defaultCompilerConfig() compilerConfig {
	var c compilerConfig
	WithConfig(config.DefaultConfig())(&c)
	return c
}

// WithConfig applies every setting of a loaded configuration file.
func WithConfig(cfg *config.Config) Option {
	return func(c *compilerConfig) {
		c.maxHeadingDepth = cfg.Headings.MaxDepth
		c.slugPrefix = cfg.Headings.SlugPrefix
		c.languages = append([]string(nil), cfg.Code.Languages...)
		c.hostIcons = convertIcons(cfg.Links.Icons)
		c.typeIcons = convertIcons(cfg.Links.TypeIcons)
		c.amazonTrackingID = cfg.Links.AmazonTrackingID
		c.thumbnailURL = cfg.Media.ThumbnailURL
		c.originURL = cfg.Media.OriginURL
		c.maxWidth = cfg.Media.MaxWidth
		c.maxHeight = cfg.Media.MaxHeight
		c.disabledRules = append([]string(nil), cfg.Lint.Disabled...)
	}
}

func convertIcons(in map[string]config.Icon) map[string]Icon {
	out := make(map[string]Icon, len(in))
	for k, v := range in {
		out[k] = Icon{Src: v.Src, Alt: v.Alt}
	}
	return out
}

// WithMaxHeadingDepth sets the deepest heading that opens a section (1-6).
// Deeper headings become section breaks and fail the heading-depth-max rule.
func WithMaxHeadingDepth(n int) Option {
	return func(c *compilerConfig) {
		c.maxHeadingDepth = n
	}
}

// WithSlugPrefix sets the prefix of every heading slug.
func WithSlugPrefix(prefix string) Option {
	return func(c *compilerConfig) {
		c.slugPrefix = prefix
	}
}

// WithLanguages replaces the code block language allow-list.
func WithLanguages(langs ...string) Option {
	return func(c *compilerConfig) {
		c.languages = append([]string(nil), langs...)
	}
}

// WithHostIcons replaces the host to link icon table.
func WithHostIcons(icons map[string]Icon) Option {
	return func(c *compilerConfig) {
		c.hostIcons = maps.Clone(icons)
	}
}

// WithTypeIcon sets the icon of a link type ("pdf" or "amazon").
func WithTypeIcon(kind string, icon Icon) Option {
	return func(c *compilerConfig) {
		if c.typeIcons == nil {
			c.typeIcons = make(map[string]Icon)
		}
		c.typeIcons[kind] = icon
	}
}

// WithAmazonTrackingID sets the affiliate tag of product links.
func WithAmazonTrackingID(id string) Option {
	return func(c *compilerConfig) {
		c.amazonTrackingID = id
	}
}

// WithThumbnailURL sets the image service template. It must contain
// {path} and may contain {type}, {w}, {h} and {quality}.
func WithThumbnailURL(template string) Option {
	return func(c *compilerConfig) {
		c.thumbnailURL = template
	}
}

// WithOriginURL sets the prefix of embedded video files.
func WithOriginURL(u string) Option {
	return func(c *compilerConfig) {
		c.originURL = u
	}
}

// WithMediaBounds sets the largest thumbnail size. Larger requests are
// scaled down proportionally.
func WithMediaBounds(width, height int) Option {
	return func(c *compilerConfig) {
		c.maxWidth = width
		c.maxHeight = height
	}
}

// WithDisabledRules turns lint rules off by id.
func WithDisabledRules(ids ...string) Option {
	return func(c *compilerConfig) {
		c.disabledRules = append([]string(nil), ids...)
	}
}
