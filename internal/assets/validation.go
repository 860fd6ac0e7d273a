package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName accepts bare preset names only: no path separators, no
// dots (so no extensions or traversal) and no leading dash.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case strings.ContainsAny(name, `/\.`), strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
