package field

import "math"

// DefaultAdvectionDt is the displacement step used by the generator.
const DefaultAdvectionDt = 0.01

const textureGain = 0.1

// AdvectAt perturbs one density sample with a texture term evaluated at the
// backward-displaced, clamped coordinates. This is not transport: nothing is
// resampled from neighbouring cells.
func AdvectAt(d, vx, vy, x, y, dt float64) float64 {
	xs := clamp(x-vx*dt, MinX, MaxX)
	ys := clamp(y-vy*dt, MinY, MaxY)
	return d + textureGain*(math.Sin(3*xs)*math.Cos(2*ys))
}

// Advect returns a new density grid; the input grids are left untouched.
func Advect(density Grid, v VectorField, s *Space, dt float64, run RowRunner) (Grid, error) {
	if !s.Matches(density) || !s.Matches(v.VX) || !s.Matches(v.VY) {
		return Grid{}, ErrShapeMismatch
	}
	out := s.NewGrid()
	w := s.Width()
	Runner(run).Rows(s.Height(), func(start, end int) {
		for i := start * w; i < end*w; i++ {
			x, y, _ := s.At(i)
			out.Data[i] = AdvectAt(density.Data[i], v.VX.Data[i], v.VY.Data[i], x, y, dt)
		}
	})
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
