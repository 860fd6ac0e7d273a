package main

import (
	"errors"
	"os"

	"github.com/alnah/go-blogmark"
	"github.com/alnah/go-blogmark/internal/assets"
	"github.com/alnah/go-blogmark/internal/config"
	"github.com/alnah/go-blogmark/internal/fileutil"
)

// Exit codes for the blogmark CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Success, or lint findings without --strict
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitLint    = 4 // Lint errors with --strict
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Lint findings (exit 4)
	if errors.Is(err, ErrLintFindings) {
		return ExitLint
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoMarkdownFiles) ||
		errors.Is(err, blogmark.ErrInvalidUTF8) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, fileutil.ErrNotMarkdown) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, assets.ErrPresetNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, blogmark.ErrEmptyLanguageList) ||
		errors.Is(err, blogmark.ErrEmptyIconTable) ||
		errors.Is(err, blogmark.ErrInvalidThumbnailURL) ||
		errors.Is(err, blogmark.ErrInvalidHeadingDepth) ||
		errors.Is(err, blogmark.ErrInvalidSlugPrefix) ||
		errors.Is(err, blogmark.ErrInvalidMediaBounds) ||
		errors.Is(err, blogmark.ErrUnknownRule) {
		return ExitUsage
	}

	return ExitGeneral
}
