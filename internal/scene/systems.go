package scene

import (
	"math"

	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/event"
	"github.com/san-kum/orbitsim/internal/physics"
)

type gravitySystem struct{ s *Scene }

func (*gravitySystem) Phase() Phase { return PhaseForces }

func (g *gravitySystem) Update(float64) {
	s := g.s
	if s.cfg.Integrator.ComputesGravity() {
		return
	}
	switch s.cfg.Mode {
	case GravityCentral:
		center, ok := physics.DominantAttractor(s.world)
		if !ok {
			return
		}
		pos := component.TransformOf(s.world, center).Position
		mass := component.PhysicsOf(s.world, center).Mass
		physics.CentralField(s.world, pos, mass, center, s.cfg.Gravity)
	default:
		physics.PairwiseNBody(s.world, s.query, s.cfg.Gravity)
	}
}

type integrateSystem struct{ s *Scene }

func (*integrateSystem) Phase() Phase { return PhaseIntegrate }

func (i *integrateSystem) Update(dt float64) {
	s := i.s
	s.cfg.Integrator.Integrate(s.world, s.query, dt)
	s.time += dt
	s.steps++
}

// collisionSystem defers a Collision for every pair of bodies whose spheres
// overlap. The store is not touched during the sweep.
type collisionSystem struct{ s *Scene }

func (*collisionSystem) Phase() Phase { return PhasePostIntegrate }

func (c *collisionSystem) Update(float64) {
	s := c.s
	ents := s.query.Entities()
	for i, a := range ents {
		ba := component.BodyOf(s.world, a)
		if ba == nil {
			continue
		}
		pa := component.TransformOf(s.world, a).Position
		for _, b := range ents[i+1:] {
			bb := component.BodyOf(s.world, b)
			if bb == nil {
				continue
			}
			d := pa.Distance(component.TransformOf(s.world, b).Position)
			if d < ba.Radius+bb.Radius {
				event.Defer(s.bus, event.Collision{A: a, B: b, Distance: d, Time: s.time})
			}
		}
	}
}

// tidalLockSystem turns locked bodies so their yaw faces the parent.
type tidalLockSystem struct{ s *Scene }

func (*tidalLockSystem) Phase() Phase { return PhasePostIntegrate }

func (t *tidalLockSystem) Update(float64) {
	w := t.s.world
	q := w.Query(component.Hierarchical, ecs.Immediate)
	for e, ok := q.Next(); ok; e, ok = q.Next() {
		orb := component.OrbitalOf(w, e)
		if !orb.TidallyLocked() || !w.Alive(orb.Parent) {
			continue
		}
		parent := component.TransformOf(w, orb.Parent)
		if parent == nil {
			continue
		}
		tr := component.TransformOf(w, e)
		d := parent.Position.Sub(tr.Position)
		tr.Rotation.Y = math.Atan2(d.X, d.Z)
	}
}

type observeSystem struct{ s *Scene }

func (*observeSystem) Phase() Phase { return PhaseObserve }

func (o *observeSystem) Update(float64) {
	s := o.s
	for _, m := range s.tracker.Observe(s.world, s.time) {
		event.Defer(s.bus, event.OrbitCompleted{
			Entity:   m.Entity,
			Name:     m.Name,
			Time:     m.Time,
			Position: m.Position,
			Number:   m.Number,
			Period:   m.Period,
		})
	}
}

type flushSystem struct{ s *Scene }

func (*flushSystem) Phase() Phase { return PhaseCleanup }

func (f *flushSystem) Update(float64) {
	f.s.bus.Flush()
}
