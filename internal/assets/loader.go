package assets

// AssetLoader defines the contract for loading configuration presets.
type AssetLoader interface {
	// LoadPreset loads a preset by name (without .yaml extension).
	// Returns ErrPresetNotFound if the preset doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadPreset(name string) ([]byte, error)
}
