package field

import "math"

// Logical bounds of the coordinate space. They do not depend on resolution.
const (
	MinX = -2.0
	MaxX = 2.0
	MinY = -1.5
	MaxY = 1.5
)

// Resolution is the output size in pixels.
type Resolution struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

func (r Resolution) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return &ResolutionError{Width: r.Width, Height: r.Height}
	}
	return nil
}

func (r Resolution) Pixels() int { return r.Width * r.Height }

// Space is the immutable normalized grid shared by every frame of a
// generator. x varies across columns, y across rows and r is the distance
// from the logical origin.
type Space struct {
	res     Resolution
	x, y, r Grid
}

// NewSpace builds the coordinate buffers for the given resolution.
func NewSpace(width, height int) (*Space, error) {
	res := Resolution{Width: width, Height: height}
	if err := res.Validate(); err != nil {
		return nil, err
	}

	xs := linspace(MinX, MaxX, width)
	ys := linspace(MinY, MaxY, height)

	s := &Space{
		res: res,
		x:   NewGrid(width, height),
		y:   NewGrid(width, height),
		r:   NewGrid(width, height),
	}
	for row := 0; row < height; row++ {
		base := row * width
		for col := 0; col < width; col++ {
			x, y := xs[col], ys[row]
			s.x.Data[base+col] = x
			s.y.Data[base+col] = y
			s.r.Data[base+col] = math.Sqrt(x*x + y*y)
		}
	}
	return s, nil
}

func (s *Space) Resolution() Resolution { return s.res }
func (s *Space) Width() int             { return s.res.Width }
func (s *Space) Height() int            { return s.res.Height }

// X, Y and R return copies of the coordinate buffers. Use At on hot paths.
func (s *Space) X() Grid { return s.x.Clone() }
func (s *Space) Y() Grid { return s.y.Clone() }
func (s *Space) R() Grid { return s.r.Clone() }

// At returns the logical coordinates of linear index i.
func (s *Space) At(i int) (x, y, r float64) {
	return s.x.Data[i], s.y.Data[i], s.r.Data[i]
}

// NewGrid allocates a zeroed grid with the space's shape.
func (s *Space) NewGrid() Grid { return NewGrid(s.res.Width, s.res.Height) }

// Matches reports whether g has the space's shape.
func (s *Space) Matches(g Grid) bool { return s.x.SameShape(g) }

// linspace fills n evenly spaced samples over [lo, hi]. The first half steps
// forward from lo and the second half backward from hi so both endpoints are
// exact. A single sample sits at lo.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	half := n / 2
	for i := 0; i < n; i++ {
		if i < half {
			out[i] = lo + step*float64(i)
		} else {
			out[i] = hi - step*float64(n-1-i)
		}
	}
	return out
}
