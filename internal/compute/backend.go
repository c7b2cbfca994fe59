package compute

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownBackend     = errors.New("compute: unknown backend")
	ErrBackendUnavailable = errors.New("compute: backend not available")
)

// Backend runs row-parallel grid work. Name is informational only; every
// backend must produce bit-identical results.
type Backend interface {
	Name() string
	Available() bool
	Rows(rows int, fn func(start, end int))
	Cleanup()
}

// Names lists the values accepted by Select.
func Names() []string {
	return []string{"auto", "cpu", "serial", "cuda"}
}

// Select resolves a configured backend name. workers <= 0 means one worker
// per CPU.
func Select(name string, workers int) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return AutoSelectBackend(workers), nil
	case "cpu":
		return NewCPUBackend(workers), nil
	case "serial":
		return NewSerialBackend(), nil
	case "cuda":
		cuda := NewCUDABackend()
		if !cuda.Available() {
			return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, cuda.Name())
		}
		return cuda, nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}
}

func AutoSelectBackend(workers int) Backend {
	cuda := NewCUDABackend()
	if cuda.Available() {
		return cuda
	}
	return NewCPUBackend(workers)
}
