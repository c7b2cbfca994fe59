package fluid

import (
	"fmt"
	"strings"
)

// Info describes a generator for configuration endpoints and the CLI.
type Info struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Device  string `json:"device"`
	Scheme  string `json:"color_scheme"`
	Palette string `json:"palette"`
}

func (g *Generator) Info() Info {
	res := g.Resolution()
	return Info{
		Width:   res.Width,
		Height:  res.Height,
		Device:  g.Device(),
		Scheme:  g.scheme,
		Palette: g.palette.Name(),
	}
}

func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d on %s", i.Width, i.Height, i.Device)
	fmt.Fprintf(&b, ", scheme %s, palette %s", i.Scheme, i.Palette)
	return b.String()
}
