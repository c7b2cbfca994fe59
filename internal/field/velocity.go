package field

import "math"

const (
	spiralStrength = 0.3
	spiralDecay    = 0.5
	spiralSpin     = 0.5
)

// VelocityAt evaluates the flow vector at one point. Two traveling waves give
// the turbulent look; the spiral term rotates around the origin and decays
// with distance. The magnitude is not bounded.
func VelocityAt(x, y, r, t float64) (vx, vy float64) {
	vx = math.Sin(2*x+0.5*t) * math.Cos(1.5*y-0.3*t)
	vy = math.Cos(1.8*x-0.4*t) * math.Sin(2.2*y+0.6*t)

	theta := math.Atan2(y, x)
	s := spiralStrength * math.Exp(-spiralDecay*r)
	vx += s * math.Cos(theta+spiralSpin*t)
	vy += s * math.Sin(theta+spiralSpin*t)
	return vx, vy
}

// Velocity evaluates the flow over the whole space at time t.
func Velocity(s *Space, t float64, run RowRunner) VectorField {
	v := VectorField{VX: s.NewGrid(), VY: s.NewGrid()}
	w := s.Width()
	Runner(run).Rows(s.Height(), func(start, end int) {
		for i := start * w; i < end*w; i++ {
			x, y, r := s.At(i)
			v.VX.Data[i], v.VY.Data[i] = VelocityAt(x, y, r, t)
		}
	})
	return v
}
