package frame

import (
	"errors"
	"fmt"
	"image"
)

// BytesPerPixel is the channel count of a PixelBuffer (R, G, B).
const BytesPerPixel = 3

var ErrInvalidSize = errors.New("frame: invalid buffer size")

// PixelBuffer is a row-major 8-bit RGB image with no padding between rows.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

func New(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*BytesPerPixel),
	}, nil
}

// Validate reports whether Pix matches the declared shape.
func (b *PixelBuffer) Validate() error {
	if b == nil || b.Width <= 0 || b.Height <= 0 {
		return ErrInvalidSize
	}
	if len(b.Pix) != b.Width*b.Height*BytesPerPixel {
		return fmt.Errorf("%w: %dx%d with %d bytes", ErrInvalidSize, b.Width, b.Height, len(b.Pix))
	}
	return nil
}

func (b *PixelBuffer) offset(x, y int) int { return (y*b.Width + x) * BytesPerPixel }

func (b *PixelBuffer) At(x, y int) (r, g, bl uint8) {
	i := b.offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

func (b *PixelBuffer) Set(x, y int, r, g, bl uint8) {
	i := b.offset(x, y)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = r, g, bl
}

// SetIndex writes the pixel at linear index i (row-major).
func (b *PixelBuffer) SetIndex(i int, r, g, bl uint8) {
	o := i * BytesPerPixel
	b.Pix[o], b.Pix[o+1], b.Pix[o+2] = r, g, bl
}

func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// ToImage expands the buffer into an opaque NRGBA image.
func (b *PixelBuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		src := b.Pix[y*b.Width*BytesPerPixel:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < b.Width; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 255
		}
	}
	return img
}

// FromImage drops alpha and copies img into a new PixelBuffer.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	b := &PixelBuffer{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    make([]uint8, bounds.Dx()*bounds.Dy()*BytesPerPixel),
	}

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Height; y++ {
			src := nrgba.Pix[y*nrgba.Stride:]
			for x := 0; x < b.Width; x++ {
				b.Set(x, y, src[x*4], src[x*4+1], src[x*4+2])
			}
		}
		return b
	}

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			r, g, bl, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			b.Set(x, y, uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
	}
	return b
}
