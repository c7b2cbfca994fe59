package anim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fluidbg/internal/frame"
)

// Frame is one rendered image and the time it was rendered at.
type Frame struct {
	Time   float64
	Buffer *frame.PixelBuffer
}

// Source renders the image for time t.
type Source interface {
	Render(ctx context.Context, t float64) (*frame.PixelBuffer, error)
}

type SourceFunc func(ctx context.Context, t float64) (*frame.PixelBuffer, error)

func (f SourceFunc) Render(ctx context.Context, t float64) (*frame.PixelBuffer, error) {
	return f(ctx, t)
}

func validate(frameCount int, duration float64) error {
	if frameCount < 1 || !(duration > 0) {
		return fmt.Errorf("%w: frames=%d duration=%g", ErrInvalidSequence, frameCount, duration)
	}
	return nil
}

// Timestamps returns t_i = i * (duration / frameCount) for i in [0, frameCount).
func Timestamps(frameCount int, duration float64) ([]float64, error) {
	if err := validate(frameCount, duration); err != nil {
		return nil, err
	}
	step := duration / float64(frameCount)
	ts := make([]float64, frameCount)
	for i := range ts {
		ts[i] = float64(i) * step
	}
	return ts, nil
}

// Sequence renders frameCount frames spread over duration seconds. Up to
// parallelism frames render at once (<= 0 means one per CPU); the result is
// always in timestamp order. The first failure cancels the rest.
func Sequence(ctx context.Context, src Source, frameCount int, duration float64, parallelism int) ([]Frame, error) {
	ts, err := Timestamps(frameCount, duration)
	if err != nil {
		return nil, err
	}
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	frames := make([]Frame, len(ts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, t := range ts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buf, err := src.Render(gctx, t)
			if err != nil {
				return fmt.Errorf("anim: frame %d (t=%g): %w", i, t, err)
			}
			frames[i] = Frame{Time: t, Buffer: buf}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
