package assets

import (
	"errors"
	"slices"
)

// AssetResolver serves presets from a custom directory when one is
// configured and from the embedded set otherwise. A custom preset shadows
// the embedded preset of the same name.
type AssetResolver struct {
	custom   *FilesystemLoader // nil without a custom path
	embedded *EmbeddedLoader
}

// NewAssetResolver returns a resolver. An empty customBasePath means
// embedded presets only; an invalid one is an error.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath == "" {
		return r, nil
	}
	custom, err := NewFilesystemLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	r.custom = custom
	return r, nil
}

// LoadPreset returns the custom preset when present, else the embedded one.
// Only ErrPresetNotFound falls through; validation and read errors do not.
func (r *AssetResolver) LoadPreset(name string) ([]byte, error) {
	if r.custom == nil {
		return r.embedded.LoadPreset(name)
	}
	data, err := r.custom.LoadPreset(name)
	if errors.Is(err, ErrPresetNotFound) {
		return r.embedded.LoadPreset(name)
	}
	return data, err
}

// Presets lists every resolvable preset name, sorted and de-duplicated.
func (r *AssetResolver) Presets() []string {
	names := r.embedded.Presets()
	if r.custom != nil {
		names = append(names, r.custom.Presets()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ AssetLoader = (*AssetResolver)(nil)
