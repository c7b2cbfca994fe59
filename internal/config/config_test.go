package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fluidbg/internal/field"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Render.Width != 1920 || cfg.Render.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.Scheme != "ai_theme" {
		t.Errorf("expected ai_theme, got %s", cfg.Render.Scheme)
	}
	if cfg.Animation.Frames != 60 || cfg.Animation.Duration != 4.0 || cfg.Animation.FrameDelayMs != 67 {
		t.Errorf("unexpected animation defaults: %+v", cfg.Animation)
	}
	if cfg.Server.TimeScale != 0.5 || cfg.Server.StreamTimeScale != 0.3 || cfg.Server.StreamDelayMs != 100 {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero width", func(c *Config) { c.Render.Width = 0 }, field.ErrInvalidResolution},
		{"negative height", func(c *Config) { c.Render.Height = -5 }, field.ErrInvalidResolution},
		{"unknown scheme", func(c *Config) { c.Render.Scheme = "sunset" }, ErrInvalidConfig},
		{"unknown palette", func(c *Config) { c.Render.Palette = "neon" }, ErrInvalidConfig},
		{"zero dt", func(c *Config) { c.Render.AdvectionDt = 0 }, ErrInvalidConfig},
		{"unknown backend", func(c *Config) { c.Compute.Backend = "tpu" }, ErrInvalidConfig},
		{"no frames", func(c *Config) { c.Animation.Frames = 0 }, ErrInvalidConfig},
		{"zero duration", func(c *Config) { c.Animation.Duration = 0 }, ErrInvalidConfig},
		{"zero delay", func(c *Config) { c.Animation.FrameDelayMs = 0 }, ErrInvalidConfig},
		{"bad quantizer", func(c *Config) { c.Animation.Quantizer = "median" }, ErrInvalidConfig},
		{"no addr", func(c *Config) { c.Server.Addr = "" }, ErrInvalidConfig},
		{"burst missing", func(c *Config) { c.Server.RateBurst = 0 }, ErrInvalidConfig},
		{"bad log format", func(c *Config) { c.Logger.Format = "xml" }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if !errors.Is(err, tt.target) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.target, err)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fluidbg.yaml")

	cfg := DefaultConfig()
	cfg.Render.Scheme = "ocean"
	cfg.Server.CORSOrigins = []string{"https://a.example", "https://b.example"}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Render.Scheme != "ocean" {
		t.Errorf("expected ocean, got %s", loaded.Render.Scheme)
	}
	if len(loaded.Server.CORSOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", loaded.Server.CORSOrigins)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "render:\n  width: 800\n  height: 600\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Render.Width != 800 || cfg.Render.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.Scheme != "ai_theme" || cfg.Animation.Frames != 60 {
		t.Error("unset fields should keep their defaults")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("render: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{"CORS_ORIGINS": " https://a.example , ,https://b.example"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	cfg.ApplyEnv(lookup)
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != "https://a.example" {
		t.Errorf("unexpected origins: %v", cfg.Server.CORSOrigins)
	}

	cfg = DefaultConfig()
	cfg.ApplyEnv(func(string) (string, bool) { return "", false })
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("expected wildcard default, got %v", cfg.Server.CORSOrigins)
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("preview")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.Width != 800 || p.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", p.Width, p.Height)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	want := []string{"hd", "preview", "thumb", "tiny"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("presets[%d] = %s, want %s", i, presets[i], want[i])
		}
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("thumb"); err != nil {
		t.Fatal(err)
	}
	if cfg.Render.Width != 320 || cfg.Render.Height != 180 {
		t.Errorf("expected 320x180, got %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if err := cfg.ApplyPreset("8k"); err == nil {
		t.Error("expected error for unknown preset")
	}
}
