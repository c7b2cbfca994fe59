package anim

import (
	"errors"
	"fmt"
)

var (
	ErrNoFrames         = errors.New("anim: no frames to export")
	ErrInvalidSequence  = errors.New("anim: frame count must be at least 1 and duration positive")
	ErrInvalidDelay     = errors.New("anim: frame delay must be positive")
	ErrUnknownQuantizer = errors.New("anim: unknown quantizer")
)

// ExportError reports a failed GIF export. The partial file, if any, has
// already been removed.
type ExportError struct {
	Path string
	Op   string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("anim: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("anim: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
