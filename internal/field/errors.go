package field

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidResolution indicates a non-positive width or height.
	ErrInvalidResolution = errors.New("field: resolution must be positive")

	// ErrShapeMismatch indicates a buffer whose shape differs from the space.
	ErrShapeMismatch = errors.New("field: buffer shape does not match coordinate space")
)

// ResolutionError reports the rejected dimensions.
type ResolutionError struct {
	Width, Height int
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("field: invalid resolution %dx%d (width and height must be positive)", e.Width, e.Height)
}

func (e *ResolutionError) Unwrap() error {
	return ErrInvalidResolution
}
