package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scenario"
)

const (
	DefaultSpeed    = 100
	DefaultAccuracy = 1000
	DefaultWidth    = 1280
	DefaultHeight   = 800
	DefaultFPS      = 30
	DefaultFrames   = 300
	DefaultDataDir  = ".orbitsim"
)

type Config struct {
	Speed       int     `yaml:"speed"`
	Accuracy    int     `yaml:"accuracy"`
	Preset      string  `yaml:"preset"`
	Integrator  string  `yaml:"integrator"`
	Workers     int     `yaml:"workers"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	BaseRadius  float64 `yaml:"base_radius"`
	TrailLimit  int     `yaml:"trail_limit"`
	StartPaused bool    `yaml:"start_paused"`
	FPS         int     `yaml:"fps"`
	Frames      int     `yaml:"frames"`
	LogLevel    string  `yaml:"log_level"`
	DataDir     string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Speed:       DefaultSpeed,
		Accuracy:    DefaultAccuracy,
		Preset:      "two-body",
		Integrator:  "leapfrog",
		Workers:     1,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		BaseRadius:  physics.DefaultBaseRadius,
		StartPaused: true,
		FPS:         DefaultFPS,
		Frames:      DefaultFrames,
		LogLevel:    "info",
		DataDir:     DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Validate checks the references a config makes. Speed and accuracy are
// not checked; the controller clamps them.
func (c *Config) Validate() error {
	if _, err := scenario.Index(c.Preset); err != nil {
		return err
	}
	if _, err := integrators.New(c.Integrator, c.Workers); err != nil {
		return err
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %gx%g", c.Width, c.Height)
	}
	if c.BaseRadius <= 0 {
		return fmt.Errorf("base_radius must be positive, got %g", c.BaseRadius)
	}
	if c.TrailLimit < 0 {
		return fmt.Errorf("trail_limit must not be negative, got %d", c.TrailLimit)
	}
	return nil
}

func (c *Config) Center() dynamo.Vec2 {
	return dynamo.V(c.Width/2, c.Height/2)
}

func (c *Config) PresetIndex() int {
	i, err := scenario.Index(c.Preset)
	if err != nil {
		return 0
	}
	return i
}
