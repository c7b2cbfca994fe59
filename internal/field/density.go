package field

import "math"

// octave is one sin(x)·cos(y) layer of the dye field.
type octave struct {
	amp    float64
	fx, px float64
	fy, py float64
}

// Large, medium and fine scale, in that order.
var octaves = [...]octave{
	{amp: 0.4, fx: 1.2, px: 0.8, fy: 0.9, py: -0.6},
	{amp: 0.3, fx: 3.1, px: -1.2, fy: 2.8, py: 0.9},
	{amp: 0.2, fx: 6.2, px: 1.5, fy: 5.5, py: -1.1},
}

const (
	envelopeDecay = 0.8
	densityFloor  = 0.1
)

// DensityAt evaluates the unnormalized dye density at one point.
func DensityAt(x, y, r, t float64) float64 {
	d := 0.0
	for _, o := range octaves {
		d += o.amp * math.Sin(o.fx*x+o.px*t) * math.Cos(o.fy*y+o.py*t)
	}
	envelope := math.Exp(-envelopeDecay * r)
	return d*envelope + densityFloor*envelope
}

// Density evaluates the dye field over the whole space at time t.
func Density(s *Space, t float64, run RowRunner) Grid {
	d := s.NewGrid()
	w := s.Width()
	Runner(run).Rows(s.Height(), func(start, end int) {
		for i := start * w; i < end*w; i++ {
			x, y, r := s.At(i)
			d.Data[i] = DensityAt(x, y, r, t)
		}
	})
	return d
}
