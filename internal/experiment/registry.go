package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

var scenarioInfo = map[string]string{
	"circular":       "single planet, circular orbit",
	"binary":         "twin stars with a distant planet",
	"sun-earth-moon": "nested hierarchy from elements",
	"inner-planets":  "four inclined eccentric planets",
	"blackhole":      "relativistic stars around a hole",
}

// Registry resolves scenario, integrator and metric names.
type Registry struct {
	scenarios map[string]func() *config.Config
	metrics   map[string]func(*config.Config) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		scenarios: make(map[string]func() *config.Config),
		metrics:   make(map[string]func(*config.Config) sim.Metric),
	}

	for _, name := range config.ListPresets() {
		r.scenarios[name] = func() *config.Config { return config.GetPreset(name) }
	}

	r.metrics["energy"] = func(*config.Config) sim.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func(*config.Config) sim.Metric { return metrics.NewEnergyDrift() }
	r.metrics["angular_momentum_drift"] = func(*config.Config) sim.Metric { return metrics.NewAngularMomentumDrift() }
	r.metrics["orbits"] = func(*config.Config) sim.Metric { return metrics.NewOrbitCount() }
	r.metrics["containment"] = func(cfg *config.Config) sim.Metric { return metrics.NewContainment(ContainmentRadius(cfg)) }

	return r
}

// RegisterScenario adds or replaces a named scenario.
func (r *Registry) RegisterScenario(name string, fn func() *config.Config) {
	r.scenarios[name] = fn
}

func (r *Registry) GetScenario(name string) (*config.Config, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string, cfg *config.Config) (integrators.Integrator, error) {
	p := physics.Params{G: cfg.Gravity.G, Softening: cfg.Gravity.Softening}
	return integrators.ByName(name, p, cfg.Gravity.LightSpeed)
}

func (r *Registry) GetMetric(name string, cfg *config.Config) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) ListScenarios() []string { return sortedKeys(r.scenarios) }
func (r *Registry) ListMetrics() []string   { return sortedKeys(r.metrics) }
func (r *Registry) ListIntegrators() []string {
	return integrators.Names()
}

// Describe returns a one-line summary of a scenario, or "".
func (r *Registry) Describe(name string) string {
	return scenarioInfo[name]
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	names := r.ListMetrics()
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, r.metrics[name](cfg))
	}
	return out
}

// ContainmentRadius is three times the farthest extent of the configured
// bodies, counting apoapsis for bodies placed on orbits.
func ContainmentRadius(cfg *config.Config) float64 {
	far := 0.0
	for _, b := range cfg.Bodies {
		p := b.Position
		far = math.Max(far, math.Sqrt(p[0]*p[0]+p[1]*p[1]+p[2]*p[2]))
		if b.Orbit != nil {
			far = math.Max(far, b.Orbit.A*(1+b.Orbit.E))
		}
	}
	if far == 0 {
		return math.Inf(1)
	}
	return 3 * far
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
