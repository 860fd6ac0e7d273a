package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-blogmark/internal/assets"
	"github.com/alnah/go-blogmark/internal/fileutil"
	"github.com/alnah/go-blogmark/internal/lint"
	"github.com/alnah/go-blogmark/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength        = 2048 // Browser limit
	MaxSlugPrefixLength = 50
	MaxTrackingIDLength = 100 // Amazon tags are short
	MaxAltLength        = 100
	MaxLanguageLength   = 50
	MaxHostLength       = 253 // RFC 1035
)

// AppName names the per-user config directory.
const AppName = "go-blogmark"

// Config holds all configuration for compiling and linting entries.
type Config struct {
	Headings HeadingsConfig `yaml:"headings"`
	Code     CodeConfig     `yaml:"code"`
	Links    LinksConfig    `yaml:"links"`
	Media    MediaConfig    `yaml:"media"`
	Lint     LintConfig     `yaml:"lint"`
	Input    InputConfig    `yaml:"input"`
}

// HeadingsConfig controls slugs and section depth.
type HeadingsConfig struct {
	MaxDepth   int    `yaml:"maxDepth"`   // 1-6; deeper headings become section breaks
	SlugPrefix string `yaml:"slugPrefix"` // prepended to every slug
}

// CodeConfig holds the code block language allow-list.
type CodeConfig struct {
	Languages []string `yaml:"languages"`
}

// Icon is a link icon image.
type Icon struct {
	Src string `yaml:"src"`
	Alt string `yaml:"alt"`
}

// LinksConfig defines link annotation.
type LinksConfig struct {
	Icons            map[string]Icon `yaml:"icons"`     // host -> icon
	TypeIcons        map[string]Icon `yaml:"typeIcons"` // "pdf", "amazon"
	AmazonTrackingID string          `yaml:"amazonTrackingID"`
}

// MediaConfig defines embedded media URLs.
type MediaConfig struct {
	ThumbnailURL string `yaml:"thumbnailURL"` // template with {path}, {type}, {w}, {h}, {quality}
	OriginURL    string `yaml:"originURL"`    // prefix of video files
	MaxWidth     int    `yaml:"maxWidth"`
	MaxHeight    int    `yaml:"maxHeight"`
}

// LintConfig selects lint rules.
type LintConfig struct {
	Disabled []string `yaml:"disabled"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// Validate checks ranges, field lengths and rule ids. Called automatically
// by LoadConfig, but available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if c.Headings.MaxDepth < 1 || c.Headings.MaxDepth > 6 {
		return fmt.Errorf("%w: headings.maxDepth must be between 1 and 6, got %d", ErrInvalidValue, c.Headings.MaxDepth)
	}
	if err := validateFieldLength("headings.slugPrefix", c.Headings.SlugPrefix, MaxSlugPrefixLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Headings.SlugPrefix, " \t\n#") {
		return fmt.Errorf("%w: headings.slugPrefix %q contains whitespace or #", ErrInvalidValue, c.Headings.SlugPrefix)
	}

	for i, lang := range c.Code.Languages {
		if err := validateFieldLength(fmt.Sprintf("code.languages[%d]", i), lang, MaxLanguageLength); err != nil {
			return err
		}
	}

	for host, icon := range c.Links.Icons {
		if err := validateFieldLength("links.icons key", host, MaxHostLength); err != nil {
			return err
		}
		if err := validateIcon("links.icons."+host, icon); err != nil {
			return err
		}
	}
	for key, icon := range c.Links.TypeIcons {
		if err := validateIcon("links.typeIcons."+key, icon); err != nil {
			return err
		}
	}
	if err := validateFieldLength("links.amazonTrackingID", c.Links.AmazonTrackingID, MaxTrackingIDLength); err != nil {
		return err
	}

	if err := validateFieldLength("media.thumbnailURL", c.Media.ThumbnailURL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("media.originURL", c.Media.OriginURL, MaxURLLength); err != nil {
		return err
	}
	if c.Media.OriginURL != "" && !fileutil.IsURL(c.Media.OriginURL) {
		return fmt.Errorf("%w: media.originURL %q is not an http(s) URL", ErrInvalidValue, c.Media.OriginURL)
	}
	if c.Media.MaxWidth < 0 || c.Media.MaxHeight < 0 {
		return fmt.Errorf("%w: media.maxWidth and media.maxHeight must not be negative", ErrInvalidValue)
	}

	for _, id := range c.Lint.Disabled {
		if _, ok := lint.Lookup(id); !ok {
			return fmt.Errorf("%w: lint.disabled: %w %q", ErrInvalidValue, lint.ErrUnknownRule, id)
		}
	}
	return nil
}

func validateIcon(field string, icon Icon) error {
	if icon.Src == "" {
		return fmt.Errorf("%w: %s.src is empty", ErrInvalidValue, field)
	}
	if err := validateFieldLength(field+".src", icon.Src, MaxURLLength); err != nil {
		return err
	}
	if _, err := url.Parse(icon.Src); err != nil {
		return fmt.Errorf("%w: %s.src: %v", ErrInvalidValue, field, err)
	}
	return validateFieldLength(field+".alt", icon.Alt, MaxAltLength)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration of the embedded default preset.
func DefaultConfig() *Config {
	cfg, err := decodePreset(&Config{}, assets.DefaultPresetName, assets.NewEmbeddedLoader())
	if err != nil {
		// The embedded preset is part of the binary.
		panic(fmt.Sprintf("config: embedded default preset: %v", err))
	}
	return cfg
}

// LoadPreset returns the default configuration overlaid with the named
// preset. basePath, when set, is searched before the embedded presets.
func LoadPreset(name, basePath string) (*Config, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, err
	}
	cfg, err := decodePreset(DefaultConfig(), name, resolver)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodePreset(base *Config, name string, loader assets.AssetLoader) (*Config, error) {
	data, err := loader.LoadPreset(name)
	if err != nil {
		return nil, err
	}
	if err := yamlutil.UnmarshalStrict(data, base); err != nil {
		return nil, fmt.Errorf("%w: preset %q: %s", ErrConfigParse, name, yamlutil.Describe(err))
	}
	return base, nil
}

// LoadConfig loads configuration from a file path or config name and
// overlays it on DefaultConfig.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrConfigParse, configPath, yamlutil.Describe(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the locations resolveConfigPath tries for name.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations:
// the current directory, then the user config directory, .yaml before .yml.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
