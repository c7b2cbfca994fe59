package field

import "math"

// Grid stores a 2D real-valued buffer in row-major order.
type Grid struct {
	W, H int
	Data []float64
}

// NewGrid allocates a zeroed grid.
func NewGrid(w, h int) Grid {
	return Grid{W: w, H: h, Data: make([]float64, w*h)}
}

// Index returns the linear slice index for (row, col).
func (g Grid) Index(row, col int) int { return row*g.W + col }

func (g Grid) At(row, col int) float64 { return g.Data[row*g.W+col] }

func (g Grid) Len() int { return len(g.Data) }

// Clone returns a grid with its own copy of the data.
func (g Grid) Clone() Grid {
	return Grid{W: g.W, H: g.H, Data: append([]float64(nil), g.Data...)}
}

func (g Grid) SameShape(o Grid) bool {
	return g.W == o.W && g.H == o.H && len(g.Data) == len(o.Data)
}

// IsValid reports whether every cell is finite.
func (g Grid) IsValid() bool {
	for _, v := range g.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// VectorField holds the flow components for one time value.
type VectorField struct {
	VX, VY Grid
}

// RowRunner invokes fn over disjoint row spans that together cover [0, rows).
// Implementations may run spans concurrently.
type RowRunner interface {
	Rows(rows int, fn func(start, end int))
}

// Serial runs every row on the calling goroutine.
type Serial struct{}

func (Serial) Rows(rows int, fn func(start, end int)) { fn(0, rows) }

// Runner returns r, or Serial when r is nil.
func Runner(r RowRunner) RowRunner {
	if r == nil {
		return Serial{}
	}
	return r
}
