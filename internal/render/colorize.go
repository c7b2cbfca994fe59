package render

import (
	"fmt"

	"github.com/san-kum/fluidbg/internal/field"
	"github.com/san-kum/fluidbg/internal/frame"
)

// Colorize maps a density grid to a new pixel buffer. The density must have
// the space's shape.
func Colorize(density field.Grid, s *field.Space, t float64, scheme Scheme, run field.RowRunner) (*frame.PixelBuffer, error) {
	if scheme == nil {
		return nil, fmt.Errorf("%w: nil scheme", ErrUnsupportedScheme)
	}
	if !s.Matches(density) {
		return nil, fmt.Errorf("render: density %dx%d: %w", density.W, density.H, field.ErrShapeMismatch)
	}
	buf, err := frame.New(s.Width(), s.Height())
	if err != nil {
		return nil, err
	}

	w := s.Width()
	field.Runner(run).Rows(s.Height(), func(start, end int) {
		for i := start * w; i < end*w; i++ {
			x, y, rd := s.At(i)
			r, g, b := scheme.Pixel(density.Data[i], x, y, rd, t)
			buf.SetIndex(i, r, g, b)
		}
	})
	return buf, nil
}
