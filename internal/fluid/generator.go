package fluid

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/fluidbg/internal/anim"
	"github.com/san-kum/fluidbg/internal/compute"
	"github.com/san-kum/fluidbg/internal/field"
	"github.com/san-kum/fluidbg/internal/frame"
	"github.com/san-kum/fluidbg/internal/palette"
	"github.com/san-kum/fluidbg/internal/render"
)

var (
	ErrInvalidOptions = errors.New("fluid: invalid options")
	ErrInvalidTime    = errors.New("fluid: time must be finite")
)

// Default resolution for backgrounds served over HTTP.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

type Options struct {
	Width, Height int
	// Scheme is used by Render and Sequence. Empty means ai_theme.
	Scheme  string
	Palette palette.Palette
	Backend compute.Backend
	// AdvectionDt defaults to field.DefaultAdvectionDt.
	AdvectionDt float64
	// Parallelism bounds concurrent frames in Sequence; <= 0 means one per CPU.
	Parallelism int
	Logger      *zap.Logger
}

// Generator renders frames for a fixed resolution. The coordinate space is
// built once; every frame is computed fresh. Safe for concurrent use.
type Generator struct {
	space       *field.Space
	scheme      string
	palette     palette.Palette
	backend     compute.Backend
	dt          float64
	parallelism int
	log         *zap.Logger

	mu      sync.RWMutex
	schemes map[string]render.Scheme
}

func New(opts Options) (*Generator, error) {
	space, err := field.NewSpace(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("fluid: %w", err)
	}

	dt := opts.AdvectionDt
	if dt == 0 {
		dt = field.DefaultAdvectionDt
	}
	if !(dt > 0) {
		return nil, fmt.Errorf("%w: advection dt %g", ErrInvalidOptions, dt)
	}

	schemeName := opts.Scheme
	if schemeName == "" {
		schemeName = render.DefaultScheme
	}
	if !render.Known(schemeName) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, &unknownSchemeError{name: schemeName})
	}

	pal := opts.Palette
	if pal.Len() == 0 {
		pal = palette.Default()
	}
	backend := opts.Backend
	if backend == nil {
		backend = compute.NewCPUBackend(0)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	g := &Generator{
		space:       space,
		scheme:      schemeName,
		palette:     pal,
		backend:     backend,
		dt:          dt,
		parallelism: opts.Parallelism,
		log:         log.Named("fluid"),
		schemes:     make(map[string]render.Scheme),
	}
	g.log.Debug("generator ready",
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.String("device", backend.Name()),
		zap.String("scheme", schemeName),
	)
	return g, nil
}

type unknownSchemeError struct{ name string }

func (e *unknownSchemeError) Error() string { return fmt.Sprintf("unknown scheme %q", e.name) }
func (e *unknownSchemeError) Unwrap() error { return render.ErrUnsupportedScheme }

func (g *Generator) Resolution() field.Resolution { return g.space.Resolution() }
func (g *Generator) Space() *field.Space          { return g.space }
func (g *Generator) Palette() palette.Palette     { return g.palette }
func (g *Generator) Scheme() string               { return g.scheme }

// Device is the informational name of the compute backend.
func (g *Generator) Device() string { return g.backend.Name() }

func (g *Generator) Close() { g.backend.Cleanup() }

// Fields holds every intermediate grid of one frame.
type Fields struct {
	Time     float64
	Velocity field.VectorField
	Raw      field.Grid
	Density  field.Grid
}

// Fields evaluates velocity and density for t and applies one advection step.
func (g *Generator) Fields(t float64) (*Fields, error) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTime, t)
	}
	v := field.Velocity(g.space, t, g.backend)
	raw := field.Density(g.space, t, g.backend)
	d, err := field.Advect(raw, v, g.space, g.dt, g.backend)
	if err != nil {
		return nil, err
	}
	return &Fields{Time: t, Velocity: v, Raw: raw, Density: d}, nil
}

func (g *Generator) lookup(name string) (render.Scheme, error) {
	g.mu.RLock()
	s, ok := g.schemes[name]
	g.mu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := render.Lookup(name, g.palette)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.schemes[name] = s
	g.mu.Unlock()
	return s, nil
}

// Frame renders the image for t with the named scheme. An unknown scheme
// returns render.ErrUnsupportedScheme and leaves the generator usable.
func (g *Generator) Frame(t float64, scheme string) (*frame.PixelBuffer, error) {
	if scheme == "" {
		scheme = g.scheme
	}
	s, err := g.lookup(scheme)
	if err != nil {
		return nil, err
	}
	f, err := g.Fields(t)
	if err != nil {
		return nil, err
	}
	return render.Colorize(f.Density, g.space, t, s, g.backend)
}

// Render implements anim.Source with the generator's scheme.
func (g *Generator) Render(ctx context.Context, t float64) (*frame.PixelBuffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.Frame(t, g.scheme)
}

func (g *Generator) FrameBytes(t float64, scheme string, format frame.Format) ([]byte, error) {
	buf, err := g.Frame(t, scheme)
	if err != nil {
		return nil, err
	}
	return frame.Encode(buf, format)
}

// FrameDataURI renders t and returns it as data:image/<format>;base64,...
func (g *Generator) FrameDataURI(t float64, scheme string, format frame.Format) (string, error) {
	data, err := g.FrameBytes(t, scheme, format)
	if err != nil {
		return "", err
	}
	return frame.DataURI(data, format), nil
}

func (g *Generator) Sequence(ctx context.Context, frameCount int, duration float64) ([]anim.Frame, error) {
	frames, err := anim.Sequence(ctx, g, frameCount, duration, g.parallelism)
	if err != nil {
		return nil, err
	}
	g.log.Debug("sequence rendered", zap.Int("frames", len(frames)), zap.Float64("duration", duration))
	return frames, nil
}

// ExportGIF renders a sequence and writes it as a looping GIF.
func (g *Generator) ExportGIF(ctx context.Context, path string, frameCount int, duration float64, delayMs int, opts anim.GIFOptions) error {
	frames, err := g.Sequence(ctx, frameCount, duration)
	if err != nil {
		return err
	}
	if opts.Theme.Len() == 0 {
		opts.Theme = g.palette
	}
	if opts.Logger == nil {
		opts.Logger = g.log.Named("anim")
	}
	return anim.ExportGIF(frames, path, delayMs, opts)
}
