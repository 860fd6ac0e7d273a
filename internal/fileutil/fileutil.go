// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrNotMarkdown = errors.New("file must have .md or .markdown extension")
	ErrEmptyPath   = errors.New("path cannot be empty")
)

// IsMarkdown reports whether path has a .md or .markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// FindMarkdown returns the markdown files under root in lexical order.
// A root naming a single file must itself be markdown.
func FindMarkdown(root string) ([]string, error) {
	if root == "" {
		return nil, ErrEmptyPath
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !IsMarkdown(root) {
			return nil, fmt.Errorf("%w: got %q", ErrNotMarkdown, filepath.Ext(root))
		}
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsMarkdown(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// WriteFile writes data to path atomically: the content goes to a temporary
// file in the same directory which is then renamed over path.
func WriteFile(path string, data []byte) error {
	if path == "" {
		return ErrEmptyPath
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".blogmark-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil { // #nosec G302 -- output is a public HTML fragment
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// OutputPath maps a markdown input to its HTML output. With an empty outDir
// the HTML lands next to the input; otherwise the path relative to baseDir
// is preserved under outDir.
func OutputPath(input, baseDir, outDir string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".html"
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, input); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.Join(outDir, filepath.Dir(rel), name)
		}
	}
	return filepath.Join(outDir, name)
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "relaxed" -> false (name)
//   - "./blog.yaml" -> true (relative path)
//   - "/etc/blog.yaml" -> true (absolute)
//   - "my-site" -> false (hyphenated name)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like an http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
