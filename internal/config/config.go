package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fluidbg/internal/anim"
	"github.com/san-kum/fluidbg/internal/compute"
	"github.com/san-kum/fluidbg/internal/field"
	"github.com/san-kum/fluidbg/internal/palette"
	"github.com/san-kum/fluidbg/internal/render"
)

const (
	DefaultWidth           = 1920
	DefaultHeight          = 1080
	DefaultFrames          = 60
	DefaultDuration        = 4.0
	DefaultTimeScale       = 0.5
	DefaultStreamTimeScale = 0.3
	DefaultStreamDelayMs   = 100
	DefaultAnimationSpeed  = 0.3
	DefaultAddr            = ":8001"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Compute   ComputeConfig   `yaml:"compute"`
	Animation AnimationConfig `yaml:"animation"`
	Server    ServerConfig    `yaml:"server"`
	Logger    LoggerConfig    `yaml:"logger"`
}

type RenderConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Scheme      string  `yaml:"scheme"`
	Palette     string  `yaml:"palette"`
	AdvectionDt float64 `yaml:"advection_dt"`
}

func (r RenderConfig) Resolution() field.Resolution {
	return field.Resolution{Width: r.Width, Height: r.Height}
}

type ComputeConfig struct {
	Backend string `yaml:"backend"`
	Workers int    `yaml:"workers"`
}

type AnimationConfig struct {
	Frames       int     `yaml:"frames"`
	Duration     float64 `yaml:"duration"`
	FrameDelayMs int     `yaml:"frame_delay_ms"`
	Output       string  `yaml:"output"`
	Quantizer    string  `yaml:"quantizer"`
	Dither       bool    `yaml:"dither"`
	Parallelism  int     `yaml:"parallelism"`
}

type ServerConfig struct {
	Addr             string   `yaml:"addr"`
	CORSOrigins      []string `yaml:"cors_origins"`
	TimeScale        float64  `yaml:"time_scale"`
	StreamTimeScale  float64  `yaml:"stream_time_scale"`
	StreamDelayMs    int      `yaml:"stream_delay_ms"`
	AnimationSpeed   float64  `yaml:"animation_speed"`
	RateLimit        float64  `yaml:"rate_limit"`
	RateBurst        int      `yaml:"rate_burst"`
	RequestTimeoutMs int      `yaml:"request_timeout_ms"`
	StaticDir        string   `yaml:"static_dir"`
}

type LoggerConfig struct {
	Level       string      `yaml:"level"`
	Format      string      `yaml:"format"`
	AddSource   bool        `yaml:"add_source"`
	ServiceName string      `yaml:"service_name"`
	LogFile     string      `yaml:"log_file"`
	MaxSize     int         `yaml:"max_size"`
	MaxBackups  int         `yaml:"max_backups"`
	MaxAge      int         `yaml:"max_age"`
	Compress    bool        `yaml:"compress"`
	Colors      ColorConfig `yaml:"colors"`
}

// ColorConfig names the terminal color for each level in console output:
// a default palette color name or "#rrggbb".
type ColorConfig struct {
	Debug string `yaml:"debug"`
	Info  string `yaml:"info"`
	Warn  string `yaml:"warn"`
	Error string `yaml:"error"`
	Fatal string `yaml:"fatal"`
}

func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Width:       DefaultWidth,
			Height:      DefaultHeight,
			Scheme:      render.DefaultScheme,
			Palette:     palette.DefaultName,
			AdvectionDt: field.DefaultAdvectionDt,
		},
		Compute: ComputeConfig{
			Backend: "auto",
		},
		Animation: AnimationConfig{
			Frames:       DefaultFrames,
			Duration:     DefaultDuration,
			FrameDelayMs: anim.DefaultFrameDelayMs,
			Output:       "fluid_animation.gif",
			Quantizer:    anim.QuantizerPlan9,
			Dither:       true,
		},
		Server: ServerConfig{
			Addr:             DefaultAddr,
			CORSOrigins:      []string{"*"},
			TimeScale:        DefaultTimeScale,
			StreamTimeScale:  DefaultStreamTimeScale,
			StreamDelayMs:    DefaultStreamDelayMs,
			AnimationSpeed:   DefaultAnimationSpeed,
			RateLimit:        20,
			RateBurst:        40,
			RequestTimeoutMs: 30000,
		},
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "fluidbg",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
			Colors: ColorConfig{
				Debug: "dark_blue",
				Info:  "cyan",
				Warn:  "#ffaa00",
				Error: "#ff4444",
				Fatal: "#ff00aa",
			},
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv reads CORS_ORIGINS (comma separated) when set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("CORS_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}
}

func (c *Config) Validate() error {
	if err := c.Render.Resolution().Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if !render.Known(c.Render.Scheme) {
		return fmt.Errorf("%w: render.scheme %q (available: %s)", ErrInvalidConfig, c.Render.Scheme, strings.Join(render.Schemes(), ", "))
	}
	if _, err := palette.Get(c.Render.Palette); err != nil {
		return fmt.Errorf("%w: render.palette: %w", ErrInvalidConfig, err)
	}
	if !(c.Render.AdvectionDt > 0) {
		return fmt.Errorf("%w: render.advection_dt must be positive", ErrInvalidConfig)
	}
	if _, err := compute.Select(c.Compute.Backend, c.Compute.Workers); err != nil {
		return fmt.Errorf("%w: compute.backend: %w", ErrInvalidConfig, err)
	}
	if c.Compute.Workers < 0 {
		return fmt.Errorf("%w: compute.workers must not be negative", ErrInvalidConfig)
	}
	if err := c.Animation.Validate(); err != nil {
		return fmt.Errorf("%w: animation.%w", ErrInvalidConfig, err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("%w: server.%w", ErrInvalidConfig, err)
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logger.format must be console or json, got %q", ErrInvalidConfig, c.Logger.Format)
	}
	return nil
}

func (a *AnimationConfig) Validate() error {
	if a.Frames < 1 {
		return fmt.Errorf("frames must be at least 1")
	}
	if !(a.Duration > 0) {
		return fmt.Errorf("duration must be positive")
	}
	if a.FrameDelayMs <= 0 {
		return fmt.Errorf("frame_delay_ms must be positive")
	}
	switch a.Quantizer {
	case anim.QuantizerPlan9, anim.QuantizerTheme:
	default:
		return fmt.Errorf("quantizer must be %s or %s", anim.QuantizerPlan9, anim.QuantizerTheme)
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if s.StreamDelayMs <= 0 {
		return fmt.Errorf("stream_delay_ms must be positive")
	}
	if s.RateLimit < 0 || s.RateBurst < 0 {
		return fmt.Errorf("rate_limit and rate_burst must not be negative")
	}
	if s.RateLimit > 0 && s.RateBurst == 0 {
		return fmt.Errorf("rate_burst must be positive when rate_limit is set")
	}
	if s.RequestTimeoutMs < 0 {
		return fmt.Errorf("request_timeout_ms must not be negative")
	}
	return nil
}
