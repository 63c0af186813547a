package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/kepler"
	"github.com/san-kum/orbitsim/internal/physics"
)

// SceneConfig translates run configuration into scene settings.
func SceneConfig(cfg *config.Config) (Config, error) {
	params := physics.Params{G: cfg.Gravity.G, Softening: cfg.Gravity.Softening}
	in, err := integrators.ByName(cfg.Integrator, params, cfg.Gravity.LightSpeed)
	if err != nil {
		return Config{}, err
	}
	sc := Config{
		Gravity:        params,
		Integrator:     in,
		Collisions:     cfg.Collisions.Enabled,
		DestroyLighter: cfg.Collisions.DestroyLighter,
		MarkerCapacity: cfg.MarkerCapacity,
	}
	if cfg.Gravity.Mode == "central" {
		if in.ComputesGravity() {
			return Config{}, fmt.Errorf("%w: integrator %s evaluates pairwise gravity itself and cannot run in central mode",
				config.ErrInvalidConfig, in.Name())
		}
		sc.Mode = GravityCentral
	}
	return sc, nil
}

// Load builds a scene from cfg. Bodies with a parent and orbit are placed
// relative to the parent's current state, so hierarchies nest.
func Load(cfg *config.Config, log *zap.Logger) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sc, err := SceneConfig(cfg)
	if err != nil {
		return nil, err
	}
	s := New(sc, log)
	if err := s.Populate(cfg.Bodies); err != nil {
		return nil, err
	}
	s.log.Info("scene loaded",
		zap.String("scenario", cfg.Scenario),
		zap.String("integrator", sc.Integrator.Name()),
		zap.Int("bodies", len(cfg.Bodies)))
	return s, nil
}

// Populate adds bodies in order. Parents must precede their children.
func (s *Scene) Populate(bodies []config.BodyConfig) error {
	byName := make(map[string]ecs.Entity, len(bodies))
	for _, bc := range bodies {
		class, err := component.ParseClass(bc.Class)
		if err != nil {
			return fmt.Errorf("body %q: %w", bc.Name, err)
		}
		color, err := config.ParseColor(bc.Color)
		if err != nil {
			return fmt.Errorf("body %q: %w", bc.Name, err)
		}
		body, err := component.NewBody(class, bc.Radius, color)
		if err != nil {
			return fmt.Errorf("body %q: %w", bc.Name, err)
		}
		spec := BodySpec{
			Name:     bc.Name,
			Body:     body,
			Position: vec(bc.Position),
			Velocity: vec(bc.Velocity),
			Mass:     bc.Mass,
			Static:   bc.Static,
		}

		var flags uint32
		if bc.TidalLock {
			flags |= component.TidalLock
		}

		var e ecs.Entity
		parent, hasParent := byName[bc.Parent]
		switch {
		case bc.Parent != "" && !hasParent:
			return fmt.Errorf("body %q: %w: parent %q", bc.Name, ErrNotFound, bc.Parent)
		case bc.Orbit != nil:
			e, err = s.Orbit(spec, parent, bc.Orbit.Elements(), flags)
		case hasParent:
			e, err = s.addRelative(spec, parent, flags)
		default:
			e, err = s.Add(spec)
		}
		if err != nil {
			return fmt.Errorf("body %q: %w", bc.Name, err)
		}
		byName[bc.Name] = e
	}
	return nil
}

// addRelative adds a body whose position and velocity are given relative to
// parent and caches the orbit they describe, if bound.
func (s *Scene) addRelative(spec BodySpec, parent ecs.Entity, flags uint32) (ecs.Entity, error) {
	ptr := component.TransformOf(s.world, parent)
	pph := component.PhysicsOf(s.world, parent)
	relPos, relVel := spec.Position, spec.Velocity
	spec.Position = relPos.Add(ptr.Position)
	spec.Velocity = relVel.Add(pph.Velocity)

	e, err := s.Add(spec)
	if err != nil {
		return ecs.Invalid, err
	}
	mu := s.cfg.Gravity.G * pph.Mass
	a, ecc, bound := kepler.Shape(relPos, relVel, mu)
	period := 0.0
	if bound {
		period = kepler.Period(a, mu)
	}
	if err := s.AttachOrbit(e, parent, a, ecc, period, flags); err != nil {
		s.destroy(e)
		return ecs.Invalid, err
	}
	return e, nil
}

func vec(a [3]float64) dynamo.Vec3 {
	return dynamo.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
