package anim

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	stdpalette "image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/san-kum/fluidbg/internal/palette"
)

const (
	QuantizerPlan9 = "plan9"
	QuantizerTheme = "theme"
)

// DefaultFrameDelayMs matches a ~15 fps web background.
const DefaultFrameDelayMs = 67

var themeStops = []string{"black", "dark_blue", "blue", "teal", "cyan"}

type GIFOptions struct {
	// Quantizer is "plan9" (default) or "theme".
	Quantizer string
	// Theme supplies the colors for the theme quantizer; zero means the
	// default palette.
	Theme    palette.Palette
	NoDither bool
	Logger   *zap.Logger
}

func (o GIFOptions) colors() (color.Palette, error) {
	switch o.Quantizer {
	case "", QuantizerPlan9:
		return stdpalette.Plan9, nil
	case QuantizerTheme:
		p := o.Theme
		if p.Len() == 0 {
			p = palette.Default()
		}
		return ThemePalette(p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuantizer, o.Quantizer)
	}
}

// ThemePalette spreads 256 GIF colors along the palette from black to cyan.
func ThemePalette(p palette.Palette) (color.Palette, error) {
	ramp, err := p.Ramp(256, themeStops...)
	if err != nil {
		return nil, err
	}
	out := make(color.Palette, len(ramp))
	for i, c := range ramp {
		r, g, b := c.Clamped().RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out, nil
}

// delayCentiseconds converts milliseconds to GIF delay units.
func delayCentiseconds(ms int) int {
	cs := int(math.Round(float64(ms) / 10))
	if cs < 1 {
		cs = 1
	}
	return cs
}

// EncodeGIF writes an infinitely looping GIF with every frame shown for
// delayMs milliseconds.
func EncodeGIF(w io.Writer, frames []Frame, delayMs int, opts GIFOptions) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if delayMs <= 0 {
		return fmt.Errorf("%w: %dms", ErrInvalidDelay, delayMs)
	}
	pal, err := opts.colors()
	if err != nil {
		return err
	}

	var drawer draw.Drawer = draw.FloydSteinberg
	if opts.NoDither {
		drawer = draw.Src
	}

	delay := delayCentiseconds(delayMs)
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for i, f := range frames {
		if err := f.Buffer.Validate(); err != nil {
			return fmt.Errorf("anim: frame %d: %w", i, err)
		}
		src := f.Buffer.ToImage()
		img := image.NewPaletted(src.Bounds(), pal)
		drawer.Draw(img, img.Bounds(), src, image.Point{})
		out.Image = append(out.Image, img)
		out.Delay = append(out.Delay, delay)
	}

	return gif.EncodeAll(w, out)
}

// ExportGIF writes frames to path. On any failure the file is closed and
// removed before the error is returned.
func ExportGIF(frames []Frame, path string, delayMs int, opts GIFOptions) (err error) {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	path = filepath.Clean(path)
	f, err := os.Create(path)
	if err != nil {
		return &ExportError{Path: path, Op: "create", Err: err}
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			log.Warn("gif export failed", zap.String("path", path), zap.Error(err))
		}
	}()

	w := bufio.NewWriter(f)
	if err = EncodeGIF(w, frames, delayMs, opts); err != nil {
		return &ExportError{Path: path, Op: "encode", Err: err}
	}
	if err = w.Flush(); err != nil {
		return &ExportError{Path: path, Op: "write", Err: err}
	}
	if err = f.Close(); err != nil {
		return &ExportError{Path: path, Op: "close", Err: err}
	}

	log.Info("gif exported",
		zap.String("path", path),
		zap.Int("frames", len(frames)),
		zap.Int("delay_ms", delayMs),
	)
	return nil
}
