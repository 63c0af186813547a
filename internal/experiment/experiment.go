package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/scene"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Experiment is one configured run: a scene loaded from cfg and a
// simulator carrying its metrics.
type Experiment struct {
	cfg       *config.Config
	scene     *scene.Scene
	simulator *sim.Simulator
	log       *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) *Experiment {
	if log == nil {
		log = zap.NewNop()
	}
	return &Experiment{cfg: cfg, log: log}
}

// Setup loads the scene and registers metrics. It may be called again to
// start over from the configured initial state.
func (e *Experiment) Setup(metrics []sim.Metric) error {
	sc, err := scene.Load(e.cfg, e.log.Named("scene"))
	if err != nil {
		return fmt.Errorf("setup %s: %w", e.cfg.Scenario, err)
	}
	e.scene = sc
	e.simulator = sim.New(e.log.Named("sim"))
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

// RunConfig derives the run loop settings from the experiment config.
func (e *Experiment) RunConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		SampleEvery:   e.cfg.SampleEvery,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	e.log.Info("run started",
		zap.String("scenario", e.cfg.Scenario),
		zap.String("integrator", e.scene.Integrator().Name()),
		zap.Float64("dt", e.cfg.Dt),
		zap.Float64("duration", e.cfg.Duration))
	return e.simulator.Run(ctx, e.scene, e.RunConfig())
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) Scene() *scene.Scene     { return e.scene }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
