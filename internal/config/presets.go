package config

import (
	"math"
	"sort"
)

var Presets = map[string]*Config{
	"circular": withDefaults(&Config{
		Scenario: "circular", Integrator: "symplectic-euler", Dt: 0.01, Duration: 500,
		Bodies: []BodyConfig{
			{Name: "sun", Class: "star", Mass: 20, Radius: 3, Color: "#ffcc33", Static: true},
			{Name: "planet", Class: "planet", Mass: 0.001, Radius: 1, Color: "#3388ff",
				Position: [3]float64{50, 0, 0}, Velocity: [3]float64{0, 0, math.Sqrt(20.0 / 50.0)}},
		},
	}),
	"binary": withDefaults(&Config{
		Scenario: "binary", Integrator: "leapfrog", Dt: 0.005, Duration: 200,
		Bodies: []BodyConfig{
			{Name: "alpha", Class: "star", Mass: 10, Radius: 1.5, Color: "#ffdd88",
				Position: [3]float64{-5, 0, 0}, Velocity: [3]float64{0, 0, -0.5}},
			{Name: "beta", Class: "star", Mass: 10, Radius: 1.5, Color: "#ff8844",
				Position: [3]float64{5, 0, 0}, Velocity: [3]float64{0, 0, 0.5}},
			{Name: "wanderer", Class: "planet", Mass: 0.01, Radius: 0.4, Color: "#88ccff",
				Position: [3]float64{40, 0, 0}, Velocity: [3]float64{0, 0, math.Sqrt(20.0 / 40.0)}},
		},
	}),
	"sun-earth-moon": withDefaults(&Config{
		Scenario: "sun-earth-moon", Integrator: "leapfrog", Dt: 0.01, Duration: 2000,
		Bodies: []BodyConfig{
			{Name: "sun", Class: "star", Mass: 1000, Radius: 5, Color: "#ffcc33"},
			{Name: "earth", Class: "planet", Mass: 1, Radius: 1, Color: "#3388ff",
				Parent: "sun", Orbit: &OrbitConfig{A: 100, E: 0.0167, Periapsis: 102.9, MeanLongitude: 100.5}},
			{Name: "moon", Class: "moon", Mass: 0.0123, Radius: 0.3, Color: "#cccccc", TidalLock: true,
				Parent: "earth", Orbit: &OrbitConfig{A: 2.5, E: 0.0549, Inclination: 5.1, Node: 125.1, Periapsis: 318.2, MeanLongitude: 218.3}},
		},
	}),
	"inner-planets": withDefaults(&Config{
		Scenario: "inner-planets", Integrator: "leapfrog", Dt: 0.01, Duration: 3000,
		Bodies: []BodyConfig{
			{Name: "sun", Class: "star", Mass: 1000, Radius: 5, Color: "#ffcc33", Static: true},
			{Name: "mercury", Class: "planet", Mass: 0.055, Radius: 0.4, Color: "#aaaaaa",
				Parent: "sun", Orbit: &OrbitConfig{A: 38.7, E: 0.2056, Inclination: 7.0, Node: 48.3, Periapsis: 77.5, MeanLongitude: 252.3}},
			{Name: "venus", Class: "planet", Mass: 0.815, Radius: 0.9, Color: "#e6c27a",
				Parent: "sun", Orbit: &OrbitConfig{A: 72.3, E: 0.0068, Inclination: 3.4, Node: 76.7, Periapsis: 131.6, MeanLongitude: 182.0}},
			{Name: "earth", Class: "planet", Mass: 1, Radius: 1, Color: "#3388ff",
				Parent: "sun", Orbit: &OrbitConfig{A: 100, E: 0.0167, Periapsis: 102.9, MeanLongitude: 100.5}},
			{Name: "mars", Class: "planet", Mass: 0.107, Radius: 0.5, Color: "#dd5533",
				Parent: "sun", Orbit: &OrbitConfig{A: 152.4, E: 0.0934, Inclination: 1.85, Node: 49.6, Periapsis: 336.0, MeanLongitude: 355.4}},
		},
	}),
	"blackhole": withDefaults(&Config{
		Scenario: "blackhole", Integrator: "leapfrog-1pn", Dt: 0.001, Duration: 100,
		Gravity: GravityConfig{Mode: "nbody", G: 1, Softening: 0.01, LightSpeed: 20},
		Bodies: []BodyConfig{
			{Name: "sgr", Class: "blackhole", Mass: 400, Radius: 2, Color: "#220033", Static: true},
			{Name: "s2", Class: "star", Mass: 0.01, Radius: 0.5, Color: "#aaccff",
				Parent: "sgr", Orbit: &OrbitConfig{A: 30, E: 0.88, Periapsis: 66.0}},
			{Name: "s14", Class: "star", Mass: 0.01, Radius: 0.5, Color: "#ffeeaa",
				Parent: "sgr", Orbit: &OrbitConfig{A: 45, E: 0.6, Inclination: 40, Node: 100, Periapsis: 200, MeanLongitude: 90}},
		},
	}),
}

func withDefaults(c *Config) *Config {
	d := DefaultConfig()
	d.Scenario = c.Scenario
	d.Integrator = c.Integrator
	d.Dt = c.Dt
	d.Duration = c.Duration
	d.Bodies = c.Bodies
	if c.Gravity.Mode != "" {
		d.Gravity = c.Gravity
	}
	return d
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
