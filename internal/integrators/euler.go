package integrators

import (
	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/ecs"
)

// SymplecticEuler applies a = F/m, v += a*dt, x += v*dt using the updated
// velocity, then clears the force accumulator. Static bodies keep their state
// but still have their accumulator cleared. Returns the number of bodies moved.
func SymplecticEuler(w *ecs.World, q *ecs.Query, dt float64) int {
	if q == nil {
		q = w.Query(component.Dynamic, ecs.Immediate)
	} else {
		q.Reset()
	}
	moved := 0
	for e, ok := q.Next(); ok; e, ok = q.Next() {
		phys := component.PhysicsOf(w, e)
		if phys == nil {
			continue
		}
		if phys.Integrated() {
			tr := component.TransformOf(w, e)
			phys.Acceleration = phys.Force.Scale(phys.InvMass)
			phys.Velocity = phys.Velocity.Add(phys.Acceleration.Scale(dt))
			tr.Position = tr.Position.Add(phys.Velocity.Scale(dt))
			moved++
		}
		phys.Force = phys.Force.Scale(0)
	}
	return moved
}

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (*Euler) Name() string { return "symplectic-euler" }

func (*Euler) ComputesGravity() bool { return false }

func (*Euler) Integrate(w *ecs.World, q *ecs.Query, dt float64) {
	SymplecticEuler(w, q, dt)
}
