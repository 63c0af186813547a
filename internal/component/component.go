// Package component defines the component kinds stored in an ecs.World by the
// simulation. Every type here is pointer-free so it can live in a byte column.
package component

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
)

const (
	KindTransform ecs.Kind = iota
	KindPhysics
	KindOrbital
	KindBody
)

var (
	// Dynamic selects everything gravity and the integrators operate on.
	Dynamic = ecs.MaskOf(KindTransform, KindPhysics)
	// Celestial selects bodies that carry a class, used for attractor lookup.
	Celestial = ecs.MaskOf(KindTransform, KindPhysics, KindBody)
	// Hierarchical selects bodies linked to a parent.
	Hierarchical = ecs.MaskOf(KindTransform, KindPhysics, KindOrbital)
)

type Transform struct {
	Position dynamo.Vec3
	Rotation dynamo.Vec3
	Scale    dynamo.Vec3
}

// Physics holds the dynamic state. Force is an accumulator cleared by the
// integrator every step.
type Physics struct {
	Velocity     dynamo.Vec3
	Acceleration dynamo.Vec3
	Force        dynamo.Vec3
	Mass         float64
	InvMass      float64
	Static       bool
}

// NewPhysics derives InvMass from mass. Non-positive mass leaves InvMass zero.
func NewPhysics(vel dynamo.Vec3, mass float64, static bool) Physics {
	p := Physics{Velocity: vel, Mass: mass, Static: static}
	if mass > 0 {
		p.InvMass = 1 / mass
	}
	return p
}

// Integrated reports whether the integrator should move this body. A
// massless dynamic body still drifts with its velocity.
func (p *Physics) Integrated() bool { return !p.Static }

// Exerts reports whether the body attracts others.
func (p *Physics) Exerts() bool { return p.Mass > 0 }

// Orbital flags.
const (
	TidalLock uint32 = 1 << iota
)

// Orbital links a body to its parent with cached orbit parameters.
type Orbital struct {
	Parent        ecs.Entity
	SemiMajorAxis float64
	Eccentricity  float64
	Period        float64
	Flags         uint32
}

func (o *Orbital) TidallyLocked() bool { return o.Flags&TidalLock != 0 }

func TransformOf(w *ecs.World, e ecs.Entity) *Transform {
	return ecs.Get[Transform](w, e, KindTransform)
}

func PhysicsOf(w *ecs.World, e ecs.Entity) *Physics {
	return ecs.Get[Physics](w, e, KindPhysics)
}

func OrbitalOf(w *ecs.World, e ecs.Entity) *Orbital {
	return ecs.Get[Orbital](w, e, KindOrbital)
}

func BodyOf(w *ecs.World, e ecs.Entity) *Body {
	return ecs.Get[Body](w, e, KindBody)
}
