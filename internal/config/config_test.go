package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alnah/go-blogmark/internal/assets"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Headings.MaxDepth != 3 {
		t.Errorf("Headings.MaxDepth = %d, want 3", cfg.Headings.MaxDepth)
	}
	if cfg.Headings.SlugPrefix != "section-" {
		t.Errorf("Headings.SlugPrefix = %q, want section-", cfg.Headings.SlugPrefix)
	}
	if !slices.Contains(cfg.Code.Languages, "go") {
		t.Errorf("Code.Languages = %v, want go included", cfg.Code.Languages)
	}
	if _, ok := cfg.Links.Icons["github.com"]; !ok {
		t.Error("Links.Icons missing github.com")
	}
	for _, key := range []string{"pdf", "amazon"} {
		if _, ok := cfg.Links.TypeIcons[key]; !ok {
			t.Errorf("Links.TypeIcons missing %q", key)
		}
	}
	if cfg.Media.MaxWidth != 1280 || cfg.Media.MaxHeight != 1280 {
		t.Errorf("Media bounds = %dx%d, want 1280x1280", cfg.Media.MaxWidth, cfg.Media.MaxHeight)
	}
	if len(cfg.Lint.Disabled) != 0 {
		t.Errorf("Lint.Disabled = %v, want empty", cfg.Lint.Disabled)
	}
	if cfg.Input.DefaultDir != "" {
		t.Errorf("Input.DefaultDir = %q, want empty", cfg.Input.DefaultDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestDefaultConfig_Independent(t *testing.T) {
	t.Parallel()

	a := DefaultConfig()
	a.Code.Languages[0] = "changed"
	a.Links.Icons["example.org"] = Icon{Src: "/x.svg"}

	b := DefaultConfig()
	if b.Code.Languages[0] == "changed" {
		t.Error("DefaultConfig shares the languages slice")
	}
	if _, ok := b.Links.Icons["example.org"]; ok {
		t.Error("DefaultConfig shares the icons map")
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit returns error", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				if err != nil && !strings.Contains(err.Error(), "test.field") {
					t.Errorf("error %q should name the field", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"depth zero", func(c *Config) { c.Headings.MaxDepth = 0 }, ErrInvalidValue},
		{"depth seven", func(c *Config) { c.Headings.MaxDepth = 7 }, ErrInvalidValue},
		{"depth six", func(c *Config) { c.Headings.MaxDepth = 6 }, nil},
		{"slug prefix with space", func(c *Config) { c.Headings.SlugPrefix = "a b" }, ErrInvalidValue},
		{"slug prefix with hash", func(c *Config) { c.Headings.SlugPrefix = "#x" }, ErrInvalidValue},
		{"empty slug prefix", func(c *Config) { c.Headings.SlugPrefix = "" }, nil},
		{"long slug prefix", func(c *Config) { c.Headings.SlugPrefix = strings.Repeat("a", MaxSlugPrefixLength+1) }, ErrFieldTooLong},
		{"long language", func(c *Config) { c.Code.Languages = []string{strings.Repeat("a", MaxLanguageLength+1)} }, ErrFieldTooLong},
		{"icon without src", func(c *Config) { c.Links.Icons["example.org"] = Icon{Alt: "x"} }, ErrInvalidValue},
		{"type icon without src", func(c *Config) { c.Links.TypeIcons["pdf"] = Icon{} }, ErrInvalidValue},
		{"long alt", func(c *Config) {
			c.Links.Icons["example.org"] = Icon{Src: "/x.svg", Alt: strings.Repeat("a", MaxAltLength+1)}
		}, ErrFieldTooLong},
		{"long tracking id", func(c *Config) { c.Links.AmazonTrackingID = strings.Repeat("a", MaxTrackingIDLength+1) }, ErrFieldTooLong},
		{"origin not http", func(c *Config) { c.Media.OriginURL = "ftp://media.example.com/" }, ErrInvalidValue},
		{"negative width", func(c *Config) { c.Media.MaxWidth = -1 }, ErrInvalidValue},
		{"unknown lint rule", func(c *Config) { c.Lint.Disabled = []string{"no-such-rule"} }, ErrInvalidValue},
		{"known lint rule", func(c *Config) { c.Lint.Disabled = []string{"no-html"} }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("overlays defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "blog.yaml", "headings:\n  maxDepth: 2\nlinks:\n  amazonTrackingID: blog-22\n")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Headings.MaxDepth != 2 {
			t.Errorf("MaxDepth = %d, want 2", cfg.Headings.MaxDepth)
		}
		if cfg.Links.AmazonTrackingID != "blog-22" {
			t.Errorf("AmazonTrackingID = %q", cfg.Links.AmazonTrackingID)
		}
		if cfg.Headings.SlugPrefix != "section-" {
			t.Errorf("SlugPrefix = %q, want default kept", cfg.Headings.SlugPrefix)
		}
		if len(cfg.Code.Languages) == 0 {
			t.Error("default languages lost")
		}
	})

	t.Run("languages are replaced", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "blog.yaml", "code:\n  languages: [go]\n")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if !slices.Equal(cfg.Code.Languages, []string{"go"}) {
			t.Errorf("Languages = %v, want [go]", cfg.Code.Languages)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "blog.yaml", "headings:\n  maxDepht: 2\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "blog.yaml", "headings:\n  maxDepth: 9\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("LoadConfig() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("LoadConfig(\"\") error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("unknown name lists search paths", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("no-such-config-abc123")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "no-such-config-abc123.yaml") {
			t.Errorf("error %q should list the tried paths", err)
		}
	})
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("blog")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v", paths)
	}
	if paths[0] != "blog.yaml" || paths[1] != "blog.yml" {
		t.Errorf("SearchPaths() starts with %v, want current directory first", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, AppName) {
			t.Errorf("user path %q missing %s", p, AppName)
		}
	}
}

func TestLoadPreset(t *testing.T) {
	t.Parallel()

	t.Run("relaxed disables formatting rules", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadPreset("relaxed", "")
		if err != nil {
			t.Fatalf("LoadPreset(relaxed) error = %v", err)
		}
		if !slices.Contains(cfg.Lint.Disabled, "table-padding") {
			t.Errorf("Lint.Disabled = %v, want table-padding", cfg.Lint.Disabled)
		}
		if cfg.Headings.MaxDepth != 3 {
			t.Errorf("MaxDepth = %d, want default 3", cfg.Headings.MaxDepth)
		}
	})

	t.Run("unknown preset", func(t *testing.T) {
		t.Parallel()

		_, err := LoadPreset("nope", "")
		if !errors.Is(err, assets.ErrPresetNotFound) {
			t.Errorf("LoadPreset() error = %v, want ErrPresetNotFound", err)
		}
	})

	t.Run("custom preset directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, "presets"), 0o750); err != nil {
			t.Fatal(err)
		}
		writeConfig(t, filepath.Join(dir, "presets"), "site.yaml", "headings:\n  slugPrefix: s-\n")
		cfg, err := LoadPreset("site", dir)
		if err != nil {
			t.Fatalf("LoadPreset(site) error = %v", err)
		}
		if cfg.Headings.SlugPrefix != "s-" {
			t.Errorf("SlugPrefix = %q, want s-", cfg.Headings.SlugPrefix)
		}
	})

	t.Run("invalid custom preset", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, "presets"), 0o750); err != nil {
			t.Fatal(err)
		}
		writeConfig(t, filepath.Join(dir, "presets"), "bad.yaml", "lint:\n  disabled: [bogus]\n")
		if _, err := LoadPreset("bad", dir); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("LoadPreset(bad) error = %v, want ErrInvalidValue", err)
		}
	})
}
