package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/fluidbg/internal/palette"
)

var oceanStops = []string{"dark_blue", "blue", "teal", "cyan"}

// Ocean maps sigmoid(density) onto a Lab-blended ramp of palette colors.
type Ocean struct {
	lut [256][3]uint8
}

func NewOcean(p palette.Palette) (*Ocean, error) {
	ramp, err := p.Ramp(256, oceanStops...)
	if err != nil {
		return nil, err
	}
	o := &Ocean{}
	for i, c := range ramp {
		o.lut[i] = rgb(c)
	}
	return o, nil
}

func rgb(c colorful.Color) [3]uint8 {
	r, g, b := c.Clamped().RGB255()
	return [3]uint8{r, g, b}
}

func (o *Ocean) Name() string { return "ocean" }

func (o *Ocean) Pixel(d, _, _, _, _ float64) (uint8, uint8, uint8) {
	c := o.lut[to8(sigmoid(d))]
	return c[0], c[1], c[2]
}
