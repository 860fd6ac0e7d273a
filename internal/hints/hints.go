// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/alnah/go-blogmark/internal/fileutil"
)

// HasUserConfig reports whether a config file exists at path. Replaced in tests.
var HasUserConfig = fileutil.FileExists

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating a config in ~/.config/go-blogmark/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-blogmark") && !HasUserConfig(p) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForPresetNotFound lists the available presets.
func ForPresetNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnknownRule points at the command listing rule ids.
func ForUnknownRule() string {
	return format("run 'blogmark lint --rules' to list rule ids")
}

// ForEmptyLanguages returns the hint for a config without code languages.
func ForEmptyLanguages() string {
	return format("set code.languages, e.g. [go, sh, yaml]")
}

// ForMissingIcons names each icon entry the config lacks.
func ForMissingIcons(missing []string) string {
	hints := make([]string, 0, len(missing))
	for _, key := range missing {
		hints = append(hints, "add "+key)
	}
	return formatHints(hints)
}

// ForThumbnailURL returns the hint for a malformed thumbnail template.
func ForThumbnailURL() string {
	return format("media.thumbnailURL must be an http(s) URL containing {path}")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForNoInput returns hints when no input path was given.
func ForNoInput() string {
	return format("pass a file or directory, or set input.defaultDir in the config")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
