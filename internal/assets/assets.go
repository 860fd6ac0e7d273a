// Package assets provides the configuration presets shipped with blogmark.
// Presets can be loaded from embedded files or a custom directory.
package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadPreset loads a preset by name using the default embedded loader.
// The name should not include the .yaml extension or path components.
// Returns ErrPresetNotFound if the preset does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadPreset(name string) ([]byte, error) {
	return defaultLoader.LoadPreset(name)
}

// Presets lists the embedded preset names in lexical order.
func Presets() []string {
	return defaultLoader.Presets()
}

// DefaultPresetName is the name of the preset every configuration starts from.
const DefaultPresetName = "default"
