package config

import (
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/driftmesh/internal/logging"
	"github.com/san-kum/driftmesh/internal/mesh"
	"github.com/san-kum/driftmesh/internal/palette"
	"github.com/san-kum/driftmesh/internal/render"
)

const (
	DefaultTheme   = "dark"
	DefaultFPS     = 60.0
	DefaultWidth   = 800.0
	DefaultHeight  = 600.0
	DefaultDataDir = "runs"
	DefaultLogFile = "driftmesh.log"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Theme    string         `yaml:"theme"`
	Seed     int64          `yaml:"seed"`
	FPS      float64        `yaml:"fps"`
	Viewport ViewportConfig `yaml:"viewport"`
	Mesh     mesh.Params    `yaml:"mesh"`
	DataDir  string         `yaml:"data_dir"`
	LogFile  string         `yaml:"log_file"`
	Debug    bool           `yaml:"debug"`
}

type ViewportConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	PixelRatio float64 `yaml:"pixel_ratio"`
}

func (v ViewportConfig) Render() render.Viewport {
	return render.Viewport{Width: v.Width, Height: v.Height, PixelRatio: v.PixelRatio}
}

func DefaultConfig() *Config {
	return &Config{
		Theme: DefaultTheme,
		FPS:   DefaultFPS,
		Viewport: ViewportConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			PixelRatio: 1,
		},
		Mesh:    mesh.DefaultParams(),
		DataDir: DefaultDataDir,
		LogFile: DefaultLogFile,
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "writing config %s", path)
}

func (c *Config) Validate() error {
	if _, err := palette.Lookup(c.Theme); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if c.FPS <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "fps must be positive, got %v", c.FPS)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "viewport %vx%v", c.Viewport.Width, c.Viewport.Height)
	}
	if err := c.Mesh.Validate(); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}

// FrameInterval converts FPS to a ticker period.
func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return render.DefaultFrameInterval
	}
	return time.Duration(float64(time.Second) / c.FPS)
}

// Rand returns a source seeded with Seed, or with the current time when
// Seed is zero.
func (c *Config) Rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RenderOptions translates the config into renderer options. The theme must
// already be valid.
func (c *Config) RenderOptions(logger logging.Logger) []render.Option {
	theme, err := palette.Lookup(c.Theme)
	if err != nil {
		theme = palette.Dark
	}
	return []render.Option{
		render.WithTheme(theme),
		render.WithParams(c.Mesh),
		render.WithRand(c.Rand()),
		render.WithLogger(logger),
		render.WithFrameInterval(c.FrameInterval()),
	}
}
