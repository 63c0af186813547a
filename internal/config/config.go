package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/kepler"
)

const (
	DefaultDt             = 0.01
	DefaultDuration       = 100.0
	DefaultSampleEvery    = 10
	DefaultG              = 1.0
	DefaultSoftening      = 0.01
	DefaultLightSpeed     = 100.0
	DefaultMarkerCapacity = 64
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Scenario       string          `yaml:"scenario" toml:"scenario"`
	Integrator     string          `yaml:"integrator" toml:"integrator"`
	Dt             float64         `yaml:"dt" toml:"dt"`
	Duration       float64         `yaml:"duration" toml:"duration"`
	SampleEvery    int             `yaml:"sample_every" toml:"sample_every"`
	MarkerCapacity int             `yaml:"marker_capacity" toml:"marker_capacity"`
	Gravity        GravityConfig   `yaml:"gravity" toml:"gravity"`
	Collisions     CollisionConfig `yaml:"collisions" toml:"collisions"`
	Bodies         []BodyConfig    `yaml:"bodies" toml:"bodies"`
	Logging        LoggingConfig   `yaml:"logging" toml:"logging"`
	Storage        StorageConfig   `yaml:"storage" toml:"storage"`
}

type GravityConfig struct {
	// Mode is "nbody" (pairwise) or "central" (dominant attractor only).
	Mode       string  `yaml:"mode" toml:"mode"`
	G          float64 `yaml:"g" toml:"g"`
	Softening  float64 `yaml:"softening" toml:"softening"`
	LightSpeed float64 `yaml:"light_speed" toml:"light_speed"`
}

type CollisionConfig struct {
	Enabled        bool `yaml:"enabled" toml:"enabled"`
	DestroyLighter bool `yaml:"destroy_lighter" toml:"destroy_lighter"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir" toml:"data_dir"`
	AppName string `yaml:"app_name" toml:"app_name"`
}

// BodyConfig describes one body. A body with a Parent and an Orbit is placed
// on that orbit relative to the parent, which must be listed earlier.
type BodyConfig struct {
	Name      string       `yaml:"name" toml:"name"`
	Class     string       `yaml:"class" toml:"class"`
	Mass      float64      `yaml:"mass" toml:"mass"`
	Radius    float64      `yaml:"radius" toml:"radius"`
	Color     string       `yaml:"color,omitempty" toml:"color,omitempty"`
	Static    bool         `yaml:"static,omitempty" toml:"static,omitempty"`
	Position  [3]float64   `yaml:"position,flow" toml:"position"`
	Velocity  [3]float64   `yaml:"velocity,flow" toml:"velocity"`
	Parent    string       `yaml:"parent,omitempty" toml:"parent,omitempty"`
	Orbit     *OrbitConfig `yaml:"orbit,omitempty" toml:"orbit,omitempty"`
	TidalLock bool         `yaml:"tidal_lock,omitempty" toml:"tidal_lock,omitempty"`
}

// OrbitConfig holds orbital elements with angles in degrees.
type OrbitConfig struct {
	A             float64 `yaml:"a" toml:"a"`
	E             float64 `yaml:"e" toml:"e"`
	Inclination   float64 `yaml:"inclination" toml:"inclination"`
	Node          float64 `yaml:"node" toml:"node"`
	Periapsis     float64 `yaml:"periapsis" toml:"periapsis"`
	MeanLongitude float64 `yaml:"mean_longitude" toml:"mean_longitude"`
}

func (o OrbitConfig) Elements() kepler.Elements {
	rad := math.Pi / 180
	return kepler.Elements{
		SemiMajorAxis: o.A,
		Eccentricity:  o.E,
		Inclination:   o.Inclination * rad,
		LongAscNode:   o.Node * rad,
		LongPeriapsis: o.Periapsis * rad,
		MeanLongitude: o.MeanLongitude * rad,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:       "custom",
		Integrator:     "symplectic-euler",
		Dt:             DefaultDt,
		Duration:       DefaultDuration,
		SampleEvery:    DefaultSampleEvery,
		MarkerCapacity: DefaultMarkerCapacity,
		Gravity: GravityConfig{
			Mode:       "nbody",
			G:          DefaultG,
			Softening:  DefaultSoftening,
			LightSpeed: DefaultLightSpeed,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			DataDir: "./data",
			AppName: "orbitsim",
		},
	}
}

// Load reads a yaml or toml file, chosen by extension, over DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as yaml, or toml when path ends in .toml.
func Save(path string, cfg *Config) error {
	var data []byte
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		var sb strings.Builder
		err = toml.NewEncoder(&sb).Encode(cfg)
		data = []byte(sb.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks run parameters and the body list.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	switch c.Gravity.Mode {
	case "nbody", "central":
	default:
		return fmt.Errorf("%w: unknown gravity mode %q", ErrInvalidConfig, c.Gravity.Mode)
	}

	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			return fmt.Errorf("%w: body %d has no name", ErrInvalidConfig, i)
		}
		if seen[b.Name] {
			return fmt.Errorf("%w: duplicate body %q", ErrInvalidConfig, b.Name)
		}
		if _, err := component.ParseClass(b.Class); err != nil {
			return fmt.Errorf("%w: body %q: %v", ErrInvalidConfig, b.Name, err)
		}
		if b.Mass < 0 || b.Radius < 0 {
			return fmt.Errorf("%w: body %q has negative mass or radius", ErrInvalidConfig, b.Name)
		}
		if _, err := ParseColor(b.Color); err != nil {
			return fmt.Errorf("%w: body %q: %v", ErrInvalidConfig, b.Name, err)
		}
		if b.Parent != "" && !seen[b.Parent] {
			return fmt.Errorf("%w: body %q references parent %q before it is defined", ErrInvalidConfig, b.Name, b.Parent)
		}
		if b.Orbit != nil {
			if b.Parent == "" {
				return fmt.Errorf("%w: body %q has an orbit but no parent", ErrInvalidConfig, b.Name)
			}
			if err := b.Orbit.Elements().Validate(); err != nil {
				return fmt.Errorf("%w: body %q: %w", ErrInvalidConfig, b.Name, err)
			}
		}
		seen[b.Name] = true
	}
	return nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" into 0xRRGGBBAA. An empty string
// is opaque white.
func ParseColor(s string) (uint32, error) {
	if s == "" {
		return 0xffffffff, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return uint32(v), nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = make([]BodyConfig, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Orbit != nil {
			o := *b.Orbit
			b.Orbit = &o
		}
		out.Bodies[i] = b
	}
	return &out
}
