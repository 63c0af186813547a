// Package scene owns a world, its event bus and the per-tick system pipeline:
// gravity, integration, post-integration checks, orbit tracking and deferred
// event delivery, in that order.
package scene

import (
	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/event"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/physics"
)

// GravityMode selects the force solver.
type GravityMode int

const (
	GravityNBody GravityMode = iota
	GravityCentral
)

type Config struct {
	Gravity    physics.Params
	Mode       GravityMode
	Integrator integrators.Integrator
	// Collisions enables overlap detection; DestroyLighter removes the
	// lighter body of each colliding pair at end of tick.
	Collisions     bool
	DestroyLighter bool
	MarkerCapacity int
	// Capacity overrides ecs.MaxEntities when positive.
	Capacity int
}

func DefaultConfig() Config {
	return Config{
		Gravity:        physics.DefaultParams(),
		Mode:           GravityNBody,
		Integrator:     integrators.NewEuler(),
		MarkerCapacity: orbit.DefaultCapacity,
	}
}

// Scene is a self-contained simulation. It is not safe for concurrent use;
// independent scenes may run on separate goroutines.
type Scene struct {
	cfg     Config
	world   *ecs.World
	bus     *event.Bus
	runner  *Runner
	tracker *orbit.Tracker
	names   map[ecs.Entity]string
	query   *ecs.Query

	time   float64
	steps  int
	primed bool
	log    *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Integrator == nil {
		cfg.Integrator = integrators.NewEuler()
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = ecs.MaxEntities
	}

	s := &Scene{
		cfg:     cfg,
		world:   ecs.NewWorldSize(capacity, log.Named("ecs")),
		bus:     event.NewBus(log.Named("event")),
		runner:  NewRunner(),
		tracker: orbit.NewTracker(cfg.MarkerCapacity, log.Named("orbit")),
		names:   make(map[ecs.Entity]string),
		log:     log,
	}
	s.query = s.world.Query(component.Dynamic, ecs.Cached)
	s.tracker.Name = s.Name

	s.runner.Register(&gravitySystem{s})
	s.runner.Register(&integrateSystem{s})
	if cfg.Collisions {
		s.runner.Register(&collisionSystem{s})
	}
	s.runner.Register(&tidalLockSystem{s})
	s.runner.Register(&observeSystem{s})
	s.runner.Register(&flushSystem{s})

	event.Subscribe(s.bus, s.onDestroyRequested)
	if cfg.Collisions && cfg.DestroyLighter {
		event.Subscribe(s.bus, s.onCollision)
	}
	return s
}

func (s *Scene) World() *ecs.World       { return s.world }
func (s *Scene) Bus() *event.Bus         { return s.bus }
func (s *Scene) Tracker() *orbit.Tracker { return s.tracker }
func (s *Scene) Config() Config          { return s.cfg }

func (s *Scene) Integrator() integrators.Integrator { return s.cfg.Integrator }

// Time returns the simulation time.
func (s *Scene) Time() float64 { return s.time }
func (s *Scene) Steps() int    { return s.steps }

// Name returns e's display name, or "" if it has none.
func (s *Scene) Name(e ecs.Entity) string { return s.names[e] }

// Lookup finds a live body by name.
func (s *Scene) Lookup(name string) (ecs.Entity, bool) {
	for e, n := range s.names {
		if n == name && s.world.Alive(e) {
			return e, true
		}
	}
	return ecs.Invalid, false
}

// Step runs one tick. The cached body query is rebuilt once, before any
// system runs, and is shared by every system of the tick.
func (s *Scene) Step(dt float64) {
	s.query.Rebuild()
	if !s.primed {
		s.tracker.Observe(s.world, s.time)
		s.primed = true
	}
	s.runner.Tick(dt)
}

// RequestDestroy queues e for destruction at the end of the current tick.
func (s *Scene) RequestDestroy(e ecs.Entity) error {
	return event.Defer(s.bus, event.DestroyRequested{Entity: e})
}

func (s *Scene) onDestroyRequested(ev event.DestroyRequested) {
	s.destroy(ev.Entity)
}

func (s *Scene) onCollision(ev event.Collision) {
	pa, pb := component.PhysicsOf(s.world, ev.A), component.PhysicsOf(s.world, ev.B)
	if pa == nil || pb == nil {
		return
	}
	victim := ev.B
	if pa.Mass < pb.Mass {
		victim = ev.A
	}
	s.log.Info("collision",
		zap.String("a", s.names[ev.A]),
		zap.String("b", s.names[ev.B]),
		zap.String("destroyed", s.names[victim]),
		zap.Float64("t", ev.Time))
	s.destroy(victim)
}

func (s *Scene) destroy(e ecs.Entity) {
	if !s.world.Alive(e) {
		return
	}
	s.world.DestroyEntity(e)
	s.tracker.Forget(e)
	delete(s.names, e)
	event.Publish(s.bus, event.BodyDestroyed{Entity: e})
}

// Restore rebuilds the world from img and swaps it in, logging through the
// scene's logger. On error the scene is unchanged. Tracking restarts from the
// restored positions.
func (s *Scene) Restore(img ecs.Image, names map[ecs.Entity]string, time float64, steps int) error {
	w, err := ecs.FromImage(img, s.log.Named("ecs"))
	if err != nil {
		return err
	}
	s.world = w
	s.names = names
	if s.names == nil {
		s.names = make(map[ecs.Entity]string)
	}
	s.time = time
	s.steps = steps
	s.query = w.Query(component.Dynamic, ecs.Cached)
	s.tracker.Reset()
	s.primed = false
	return nil
}

// Names returns a copy of the entity name table.
func (s *Scene) Names() map[ecs.Entity]string {
	out := make(map[ecs.Entity]string, len(s.names))
	for e, n := range s.names {
		out[e] = n
	}
	return out
}
