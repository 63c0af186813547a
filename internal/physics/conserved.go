package physics

import (
	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
)

// Energy returns kinetic plus pairwise potential energy of every body with
// positive mass. Pairs closer than the softening floor exert no force and
// contribute no potential.
func Energy(w *ecs.World, p Params) float64 {
	ents := w.Query(component.Dynamic, ecs.Cached).Entities()
	ke, pe := 0.0, 0.0
	for i, a := range ents {
		pa := component.PhysicsOf(w, a)
		if !pa.Exerts() {
			continue
		}
		ke += 0.5 * pa.Mass * pa.Velocity.Norm2()
		xa := component.TransformOf(w, a).Position
		for _, b := range ents[i+1:] {
			pb := component.PhysicsOf(w, b)
			if !pb.Exerts() {
				continue
			}
			r := xa.Distance(component.TransformOf(w, b).Position)
			if r < p.Softening {
				continue
			}
			pe -= p.G * pa.Mass * pb.Mass / r
		}
	}
	return ke + pe
}

// Momentum returns the total linear momentum.
func Momentum(w *ecs.World) dynamo.Vec3 {
	var total dynamo.Vec3
	q := w.Query(component.Dynamic, ecs.Immediate)
	for e, ok := q.Next(); ok; e, ok = q.Next() {
		phys := component.PhysicsOf(w, e)
		if phys.Mass > 0 {
			total = total.Add(phys.Velocity.Scale(phys.Mass))
		}
	}
	return total
}

// AngularMomentum returns the total angular momentum about the origin.
func AngularMomentum(w *ecs.World) dynamo.Vec3 {
	var total dynamo.Vec3
	q := w.Query(component.Dynamic, ecs.Immediate)
	for e, ok := q.Next(); ok; e, ok = q.Next() {
		phys := component.PhysicsOf(w, e)
		if phys.Mass <= 0 {
			continue
		}
		r := component.TransformOf(w, e).Position
		total = total.Add(r.Cross(phys.Velocity).Scale(phys.Mass))
	}
	return total
}
