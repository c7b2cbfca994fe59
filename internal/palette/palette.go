// Package palette holds the named color constants available to color
// schemes. Palettes are immutable once built and safe to share.
package palette

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrUnknownPalette = errors.New("palette: unknown palette")
	ErrUnknownColor   = errors.New("palette: unknown color")
	ErrEmptyRamp      = errors.New("palette: ramp needs at least one stop and one step")
)

// Entry is one named color given as a hex triplet.
type Entry struct {
	Name string
	Hex  string
}

type Palette struct {
	name   string
	order  []string
	colors map[string]colorful.Color
}

// New parses entries into a palette. Entry order is kept for Names.
func New(name string, entries ...Entry) (Palette, error) {
	p := Palette{
		name:   name,
		order:  make([]string, 0, len(entries)),
		colors: make(map[string]colorful.Color, len(entries)),
	}
	for _, e := range entries {
		c, err := colorful.Hex(e.Hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %s: color %s: %w", name, e.Name, err)
		}
		if _, dup := p.colors[e.Name]; dup {
			return Palette{}, fmt.Errorf("palette %s: duplicate color %s", name, e.Name)
		}
		p.order = append(p.order, e.Name)
		p.colors[e.Name] = c
	}
	return p, nil
}

func mustNew(name string, entries ...Entry) Palette {
	p, err := New(name, entries...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Palette) Name() string { return p.name }

func (p Palette) Len() int { return len(p.order) }

// Names returns the color names in declaration order.
func (p Palette) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

func (p Palette) Color(name string) (colorful.Color, error) {
	c, ok := p.colors[name]
	if !ok {
		return colorful.Color{}, fmt.Errorf("%w: %s in %s", ErrUnknownColor, name, p.name)
	}
	return c, nil
}

// RGB255 returns the 8-bit channels of a named color.
func (p Palette) RGB255(name string) (r, g, b uint8, err error) {
	c, err := p.Color(name)
	if err != nil {
		return 0, 0, 0, err
	}
	r, g, b = c.RGB255()
	return r, g, b, nil
}

// Ramp returns n colors evenly spaced along the named stops, blended in
// CIE-L*a*b*. The first and last colors are the end stops exactly.
func (p Palette) Ramp(n int, stops ...string) ([]colorful.Color, error) {
	if n < 1 || len(stops) == 0 {
		return nil, ErrEmptyRamp
	}
	cs := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := p.Color(s)
		if err != nil {
			return nil, err
		}
		cs[i] = c
	}

	out := make([]colorful.Color, n)
	if len(cs) == 1 || n == 1 {
		for i := range out {
			out[i] = cs[0]
		}
		return out, nil
	}

	segments := float64(len(cs) - 1)
	for i := range out {
		pos := float64(i) / float64(n-1) * segments
		seg := int(math.Floor(pos))
		if seg >= len(cs)-1 {
			seg = len(cs) - 2
		}
		out[i] = cs[seg].BlendLab(cs[seg+1], pos-float64(seg)).Clamped()
	}
	return out, nil
}

const DefaultName = "cloud"

var palettes = map[string]Palette{
	"cloud": mustNew("cloud",
		Entry{"cyan", "#00ffd1"},
		Entry{"blue", "#0055ff"},
		Entry{"teal", "#00ffaa"},
		Entry{"dark_blue", "#006496"},
		Entry{"black", "#000000"},
	),
	"mono": mustNew("mono",
		Entry{"cyan", "#e6e6e6"},
		Entry{"blue", "#808080"},
		Entry{"teal", "#b3b3b3"},
		Entry{"dark_blue", "#404040"},
		Entry{"black", "#000000"},
	),
}

// Default returns the cloud palette.
func Default() Palette { return palettes[DefaultName] }

func Get(name string) (Palette, error) {
	if name == "" {
		return Default(), nil
	}
	p, ok := palettes[name]
	if !ok {
		return Palette{}, fmt.Errorf("%w: %s", ErrUnknownPalette, name)
	}
	return p, nil
}

func List() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
