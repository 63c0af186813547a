package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "symplectic-euler" {
		t.Errorf("expected integrator symplectic-euler, got %s", cfg.Integrator)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.MarkerCapacity != 64 {
		t.Errorf("expected marker capacity 64, got %d", cfg.MarkerCapacity)
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if cfg == nil {
				t.Fatal("expected preset, got nil")
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset does not validate: %v", err)
			}
			if cfg.Scenario != name {
				t.Errorf("scenario = %q", cfg.Scenario)
			}
		})
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPresetIsCopy(t *testing.T) {
	a := GetPreset("sun-earth-moon")
	a.Bodies[2].Orbit.A = 99
	a.Dt = 1

	b := GetPreset("sun-earth-moon")
	if b.Bodies[2].Orbit.A == 99 || b.Dt == 1 {
		t.Error("mutating a preset copy changed the registry")
	}
}

func TestListPresetsSorted(t *testing.T) {
	got := ListPresets()
	want := []string{"binary", "blackhole", "circular", "inner-planets", "sun-earth-moon"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"bad gravity mode", func(c *Config) { c.Gravity.Mode = "mond" }},
		{"unnamed body", func(c *Config) { c.Bodies[1].Name = "" }},
		{"duplicate body", func(c *Config) { c.Bodies[1].Name = "sun" }},
		{"unknown class", func(c *Config) { c.Bodies[0].Class = "nebula" }},
		{"negative mass", func(c *Config) { c.Bodies[0].Mass = -1 }},
		{"bad color", func(c *Config) { c.Bodies[0].Color = "#12" }},
		{"forward parent", func(c *Config) { c.Bodies[1].Parent = "moon" }},
		{"orbit without parent", func(c *Config) { c.Bodies[2].Parent = "" }},
		{"hyperbolic orbit", func(c *Config) { c.Bodies[2].Orbit.E = 1.2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetPreset("sun-earth-moon")
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"", 0xffffffff, false},
		{"#ff8800", 0xff8800ff, false},
		{"3388ff80", 0x3388ff80, false},
		{"#xyzxyz", 0, true},
		{"#fff", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scene"+ext)
			orig := GetPreset("sun-earth-moon")

			if err := Save(path, orig); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if len(got.Bodies) != 3 || got.Bodies[2].Orbit == nil || got.Bodies[2].Orbit.A != 2.5 {
				t.Errorf("bodies not restored: %+v", got.Bodies)
			}
			if got.Integrator != "leapfrog" || got.Dt != orig.Dt {
				t.Errorf("run parameters not restored: %s %g", got.Integrator, got.Dt)
			}
		})
	}
}

func TestLoadTOMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	data := `
dt = 0.002

[gravity]
mode = "central"

[[bodies]]
name = "sun"
class = "star"
mass = 20.0
radius = 2.0
static = true

[[bodies]]
name = "rock"
class = "asteroid"
mass = 0.1
radius = 0.1
parent = "sun"

[bodies.orbit]
a = 30.0
e = 0.1
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Dt != 0.002 || cfg.Duration != DefaultDuration {
		t.Errorf("dt=%g duration=%g", cfg.Dt, cfg.Duration)
	}
	// Keys missing from a present table keep their defaults.
	if cfg.Gravity.Mode != "central" || cfg.Gravity.G != DefaultG {
		t.Errorf("gravity = %+v", cfg.Gravity)
	}
	if len(cfg.Bodies) != 2 || cfg.Bodies[1].Orbit == nil || cfg.Bodies[1].Orbit.A != 30 {
		t.Errorf("bodies = %+v", cfg.Bodies)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
