package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// presetDir is the subdirectory of a custom asset path holding presets.
const presetDir = "presets"

// presetExts are the accepted preset file extensions, in lookup order.
var presetExts = []string{".yaml", ".yml"}

// FilesystemLoader reads presets from {root}/presets/{name}.yaml (or .yml).
type FilesystemLoader struct {
	root string // absolute, symlinks resolved
}

// NewFilesystemLoader returns a loader rooted at basePath, which must be a
// readable directory. Returns ErrInvalidBasePath otherwise.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	root, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	// Containment checks compare resolved paths.
	if real, err := filepath.EvalSymlinks(root); err == nil {
		root = real
	}

	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, root)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, root)
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{root: root}, nil
}

// LoadPreset reads the named preset. A .yaml file wins over a .yml file.
func (f *FilesystemLoader) LoadPreset(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	for _, ext := range presetExts {
		path := filepath.Join(f.root, presetDir, name+ext)
		if err := f.contain(path); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path) // #nosec G304 -- contained in root
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrPresetNotFound, name, filepath.Join(f.root, presetDir))
}

// Presets lists the valid preset names found on disk, sorted. A missing
// presets directory yields no names.
func (f *FilesystemLoader) Presets() []string {
	entries, err := os.ReadDir(filepath.Join(f.root, presetDir))
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !slices.Contains(presetExts, ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if ValidateAssetName(name) != nil || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// contain rejects paths that resolve outside the loader root, including
// through symlinks. A path that does not exist yet is checked as written.
func (f *FilesystemLoader) contain(path string) error {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	if !strings.HasPrefix(path, f.root+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s escapes %s", ErrPathTraversal, path, f.root)
	}
	return nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)
