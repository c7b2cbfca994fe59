package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/fluidbg/internal/palette"
)

// Factory builds a scheme against the generator's palette.
type Factory func(p palette.Palette) (Scheme, error)

type Registry struct {
	schemes map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{schemes: make(map[string]Factory)}

	r.schemes["ai_theme"] = func(palette.Palette) (Scheme, error) { return AITheme{}, nil }
	r.schemes["ocean"] = func(p palette.Palette) (Scheme, error) { return NewOcean(p) }

	return r
}

func (r *Registry) Register(name string, f Factory) {
	r.schemes[name] = f
}

func (r *Registry) Get(name string, p palette.Palette) (Scheme, error) {
	fn, ok := r.schemes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnsupportedScheme, name, strings.Join(r.List(), ", "))
	}
	return fn(p)
}

func (r *Registry) Has(name string) bool {
	_, ok := r.schemes[name]
	return ok
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.schemes))
	for name := range r.schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var builtin = NewRegistry()

// Lookup resolves a built-in scheme.
func Lookup(name string, p palette.Palette) (Scheme, error) {
	return builtin.Get(name, p)
}

// Schemes lists the built-in scheme names.
func Schemes() []string { return builtin.List() }

// Known reports whether name is a built-in scheme.
func Known(name string) bool { return builtin.Has(name) }
