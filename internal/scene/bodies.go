package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/event"
	"github.com/san-kum/orbitsim/internal/kepler"
)

var ErrNotFound = errors.New("scene: body not found")

// BodySpec describes a body to add. Body carries the class variant; Radius
// and Color on it are used as given.
type BodySpec struct {
	Name     string
	Body     component.Body
	Position dynamo.Vec3
	Velocity dynamo.Vec3
	Mass     float64
	Static   bool
}

// BodyState is a read-only copy of one body for display and telemetry.
type BodyState struct {
	Entity   ecs.Entity
	Name     string
	Class    component.Class
	Position dynamo.Vec3
	Velocity dynamo.Vec3
	Mass     float64
	Radius   float64
	Color    uint32
	Static   bool
}

// AddBody creates a dynamic body of the given class with default class
// properties.
func (s *Scene) AddBody(class component.Class, pos, vel dynamo.Vec3, mass, radius float64, color uint32) (ecs.Entity, error) {
	body, err := component.NewBody(class, radius, color)
	if err != nil {
		return ecs.Invalid, err
	}
	return s.Add(BodySpec{Body: body, Position: pos, Velocity: vel, Mass: mass})
}

// Add creates a body from spec. On failure no entity is left behind.
func (s *Scene) Add(spec BodySpec) (ecs.Entity, error) {
	e, err := s.world.CreateEntity()
	if err != nil {
		return ecs.Invalid, err
	}

	tr := component.Transform{Position: spec.Position, Scale: dynamo.Vec3{X: 1, Y: 1, Z: 1}}
	if _, err := ecs.Add(s.world, e, component.KindTransform, tr); err != nil {
		s.world.DestroyEntity(e)
		return ecs.Invalid, err
	}
	phys := component.NewPhysics(spec.Velocity, spec.Mass, spec.Static)
	if _, err := ecs.Add(s.world, e, component.KindPhysics, phys); err != nil {
		s.world.DestroyEntity(e)
		return ecs.Invalid, err
	}
	if _, err := ecs.Add(s.world, e, component.KindBody, spec.Body); err != nil {
		s.world.DestroyEntity(e)
		return ecs.Invalid, err
	}

	if spec.Name != "" {
		s.names[e] = spec.Name
	}
	s.log.Debug("body added",
		zap.Uint32("entity", uint32(e)),
		zap.String("name", spec.Name),
		zap.Stringer("class", spec.Body.Class()),
		zap.Float64("mass", spec.Mass))
	event.Publish(s.bus, event.BodyCreated{Entity: e, Name: spec.Name})
	return e, nil
}

// SetName names e.
func (s *Scene) SetName(e ecs.Entity, name string) {
	if s.world.Alive(e) {
		s.names[e] = name
	}
}

// AttachOrbit links child to parent with cached orbit parameters.
func (s *Scene) AttachOrbit(child, parent ecs.Entity, a, e, period float64, flags uint32) error {
	if !s.world.Alive(child) || !s.world.Alive(parent) {
		return fmt.Errorf("%w: child %d parent %d", ErrNotFound, child, parent)
	}
	_, err := ecs.Add(s.world, child, component.KindOrbital, component.Orbital{
		Parent:        parent,
		SemiMajorAxis: a,
		Eccentricity:  e,
		Period:        period,
		Flags:         flags,
	})
	return err
}

// Orbit places a new body on the given elements around parent and attaches
// the orbit, deriving the cached period from the parent's mass.
func (s *Scene) Orbit(spec BodySpec, parent ecs.Entity, el kepler.Elements, flags uint32) (ecs.Entity, error) {
	ptr := component.TransformOf(s.world, parent)
	pph := component.PhysicsOf(s.world, parent)
	if ptr == nil || pph == nil {
		return ecs.Invalid, fmt.Errorf("%w: parent %d", ErrNotFound, parent)
	}
	mu := s.cfg.Gravity.G * pph.Mass
	pos, vel, err := kepler.Place(el, mu, ptr.Position, pph.Velocity)
	if err != nil {
		return ecs.Invalid, err
	}
	spec.Position, spec.Velocity = pos, vel

	e, err := s.Add(spec)
	if err != nil {
		return ecs.Invalid, err
	}
	period := kepler.Period(el.SemiMajorAxis, mu)
	if err := s.AttachOrbit(e, parent, el.SemiMajorAxis, el.Eccentricity, period, flags); err != nil {
		s.destroy(e)
		return ecs.Invalid, err
	}
	return e, nil
}

// Bodies returns a snapshot of every body, in ascending entity order.
func (s *Scene) Bodies() []BodyState {
	return s.AppendBodies(nil)
}

// AppendBodies appends the snapshot to dst and returns the extended slice.
func (s *Scene) AppendBodies(dst []BodyState) []BodyState {
	q := s.world.Query(component.Celestial, ecs.Immediate)
	for e, ok := q.Next(); ok; e, ok = q.Next() {
		tr := component.TransformOf(s.world, e)
		ph := component.PhysicsOf(s.world, e)
		b := component.BodyOf(s.world, e)
		dst = append(dst, BodyState{
			Entity:   e,
			Name:     s.names[e],
			Class:    b.Class(),
			Position: tr.Position,
			Velocity: ph.Velocity,
			Mass:     ph.Mass,
			Radius:   b.Radius,
			Color:    b.Color,
			Static:   ph.Static,
		})
	}
	return dst
}
