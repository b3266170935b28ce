// errors.go
package ccapkg

import (
	"errors"
	"fmt"

	"github.com/wysaid/ccapkg/pkg/cache"
	"github.com/wysaid/ccapkg/pkg/recipe"
	"github.com/wysaid/ccapkg/pkg/source"
)

var (
	// ErrPackageNotFound indicates no cached package matches the request
	ErrPackageNotFound = cache.ErrPackageNotFound

	// ErrInvalidConfiguration indicates a recipe rejected the settings or options
	ErrInvalidConfiguration = recipe.ErrInvalidConfiguration

	// ErrUnknownRecipe indicates a recipe kind that does not exist
	ErrUnknownRecipe = recipe.ErrUnknownRecipe

	// ErrHashMismatch indicates downloaded sources failed verification
	ErrHashMismatch = source.ErrHashMismatch

	// ErrMissingConandata indicates the distribution recipe has no conandata.yml
	ErrMissingConandata = errors.New("conandata.yml not found")
)

// Error wraps an error with additional context
type Error struct {
	Op        string // Operation that failed
	Reference string // Package reference if applicable
	Err       error  // Underlying error
}

func (e *Error) Error() string {
	if e.Reference != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Reference, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
