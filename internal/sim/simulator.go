package sim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scene"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
	pool      *BodyPool
	log       *zap.Logger
}

func New(log *zap.Logger) *Simulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		pool:      NewBodyPool(16),
		log:       log,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances sc for cfg.Duration in steps of cfg.Dt, sampling body
// positions every cfg.SampleEvery ticks. The first and last states are
// always sampled. On cancellation the partial result is returned with the
// context error.
func (s *Simulator) Run(ctx context.Context, sc *scene.Scene, cfg dynamo.Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	every := max(cfg.SampleEvery, 1)

	for _, m := range s.metrics {
		m.Reset()
	}

	initial := s.pool.Snapshot(sc)
	index := make(map[ecs.Entity]int, len(*initial))
	result := &Result{}
	result.Names = make([]string, len(*initial))
	result.Samples = make([]dynamo.Sample, 0, steps/every+2)
	result.Metrics = make(map[string]float64)
	for i, b := range *initial {
		index[b.Entity] = i
		result.Names[i] = b.Name
		if b.Name == "" {
			result.Names[i] = fmt.Sprintf("body-%d", b.Entity)
		}
	}

	last := make([]dynamo.Vec3, len(*initial))
	for i, b := range *initial {
		last[i] = b.Position
	}
	s.pool.Put(initial)

	sample := func() {
		buf := s.pool.Snapshot(sc)
		defer s.pool.Put(buf)
		smp := dynamo.Sample{
			Time:      sc.Time(),
			Positions: make([]dynamo.Vec3, len(last)),
			Alive:     make([]bool, len(last)),
		}
		for _, b := range *buf {
			if i, ok := index[b.Entity]; ok {
				last[i] = b.Position
				smp.Alive[i] = true
			}
		}
		copy(smp.Positions, last)
		result.Samples = append(result.Samples, smp)
	}

	params := sc.Config().Gravity
	e0 := physics.Energy(sc.World(), params)
	sample()
	sampled := true

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}
		if runErr != nil {
			break
		}

		sc.Step(cfg.Dt)
		result.StepsTaken++
		sampled = false

		for _, m := range s.metrics {
			m.Observe(sc)
		}
		for _, obs := range s.observers {
			obs.OnStep(sc)
		}

		if cfg.ValidateState {
			if name, ok := s.firstInvalid(sc); ok {
				err := dynamo.SimError{Time: sc.Time(), Step: i, Message: fmt.Sprintf("invalid state (NaN/Inf) in %s", name)}
				result.Errors = append(result.Errors, err)
				s.log.Warn("simulation diverged", zap.Int("step", i), zap.Float64("time", sc.Time()), zap.String("body", name))
				break
			}
		}

		if result.StepsTaken%every == 0 {
			sample()
			sampled = true
		}
	}
	if !sampled {
		sample()
	}

	result.FinalTime = sc.Time()
	if e1 := physics.Energy(sc.World(), params); e0 != 0 {
		result.EnergyDrift = math.Abs(e1-e0) / math.Abs(e0)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	markers := sc.Tracker().Markers()
	result.Markers = markers.All()
	result.Orbits = markers.Len() + markers.Evicted()

	s.log.Debug("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Float64("time", result.FinalTime),
		zap.Int("orbits", result.Orbits),
		zap.Float64("energy_drift", result.EnergyDrift))
	return result, runErr
}

// RunWithCallback steps sc until the duration elapses or callback returns
// false. The callback sees the scene before each tick.
func (s *Simulator) RunWithCallback(ctx context.Context, sc *scene.Scene, cfg dynamo.Config, callback func(*scene.Scene) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	end := sc.Time() + cfg.Duration
	for sc.Time() < end {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		if !callback(sc) {
			return nil
		}

		sc.Step(cfg.Dt)

		if cfg.ValidateState {
			if name, ok := s.firstInvalid(sc); ok {
				return &dynamo.SimulationError{
					Step:    sc.Steps(),
					Time:    sc.Time(),
					Wrapped: fmt.Errorf("%w in %s", dynamo.ErrInvalidState, name),
				}
			}
		}
	}
	return nil
}

func (s *Simulator) firstInvalid(sc *scene.Scene) (string, bool) {
	buf := s.pool.Snapshot(sc)
	defer s.pool.Put(buf)
	for _, b := range *buf {
		if !b.Position.IsValid() || !b.Velocity.IsValid() {
			if b.Name != "" {
				return b.Name, true
			}
			return fmt.Sprintf("body-%d", b.Entity), true
		}
	}
	return "", false
}

func validateConfig(cfg dynamo.Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 || math.IsNaN(cfg.Duration) {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Duration)
	}
	return nil
}
