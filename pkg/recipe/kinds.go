package recipe

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRecipe indicates a recipe kind that does not exist
var ErrUnknownRecipe = errors.New("unknown recipe")

// Recipe kinds selectable from the command line
const (
	KindLocal  = "local"
	KindCenter = "center"
)

// Kinds lists the selectable recipe kinds
var Kinds = []string{KindLocal, KindCenter}

// ByKind returns the recipe of the given kind. An empty version selects
// LocalVersion.
func ByKind(kind, version string) (Recipe, error) {
	if version == "" {
		version = LocalVersion
	}

	switch kind {
	case KindLocal:
		if version != LocalVersion {
			return nil, fmt.Errorf("local recipe only builds version %s, got %s", LocalVersion, version)
		}
		return NewLocal(), nil
	case KindCenter:
		return NewCenter(version), nil
	}
	return nil, fmt.Errorf("%w: %s (want one of %s)", ErrUnknownRecipe, kind, strings.Join(Kinds, ", "))
}
