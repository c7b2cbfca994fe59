package config

import (
	"fmt"
	"sort"
)

type Preset struct {
	Width       int
	Height      int
	Description string
}

var Presets = map[string]Preset{
	"hd":      {Width: 1920, Height: 1080, Description: "full HD page background"},
	"preview": {Width: 800, Height: 600, Description: "quick local preview"},
	"thumb":   {Width: 320, Height: 180, Description: "thumbnail / low bandwidth"},
	"tiny":    {Width: 8, Height: 6, Description: "smoke test"},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset sets the render resolution from a named preset.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset: %s", name)
	}
	c.Render.Width = p.Width
	c.Render.Height = p.Height
	return nil
}
