package render

import (
	"errors"
	"math"
)

var ErrUnsupportedScheme = errors.New("render: unsupported color scheme")

// DefaultScheme is the scheme used when none is requested.
const DefaultScheme = "ai_theme"

// Scheme maps the density at one sample, together with its coordinates and
// the frame time, to an 8-bit color. Implementations must be pure.
type Scheme interface {
	Name() string
	Pixel(density, x, y, r, t float64) (red, green, blue uint8)
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

// clamp01 maps NaN to 0.
func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// to8 truncates a [0,1] channel to a byte.
func to8(v float64) uint8 {
	return uint8(clamp01(v) * 255)
}

// AITheme is the cyan/green accented scheme.
type AITheme struct{}

func (AITheme) Name() string { return "ai_theme" }

func (AITheme) Pixel(d, x, y, r, t float64) (uint8, uint8, uint8) {
	red := 0.1 + 0.3*sigmoid(d+math.Sin(2*x+0.7*t))
	green := 0.4 + 0.4*sigmoid(1.5*d+math.Cos(1.8*y-0.5*t))
	blue := 0.3 + 0.5*sigmoid(0.8*d+math.Sin(r+0.3*t))

	accent := sigmoid(2*d - 0.5)
	red *= 1 - 0.8*accent
	green = clamp01(green + 0.4*accent)
	blue = clamp01(blue + 0.6*accent)

	return to8(red), to8(green), to8(blue)
}
