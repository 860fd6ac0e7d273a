// Package assets provides the configuration presets shipped with blogmark.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in presets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in presets (default, relaxed) embedded
// at compile time. The default preset holds the icon table, the code
// language allow-list and the thumbnail service template.
//
// FilesystemLoader allows users to provide their own presets from a
// directory, with path traversal protection and symlink resolution.
//
// AssetResolver tries the custom FilesystemLoader first, falling back to
// EmbeddedLoader if the preset is not found.
//
// # Directory Structure
//
//	{basePath}/
//	└── presets/
//	    └── {name}.yaml (or .yml)
//
// # Security
//
// Preset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
