package assets

import "errors"

// Sentinel errors for preset loading.
var (
	ErrPresetNotFound   = errors.New("preset not found")
	ErrInvalidAssetName = errors.New("invalid asset name") // separators, dots or traversal
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("path traversal detected")
)
