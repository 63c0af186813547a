package physics

import (
	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
)

// Params are the gravity constants shared by the solvers.
type Params struct {
	G         float64
	Softening float64
}

func DefaultParams() Params {
	return Params{G: 1.0, Softening: 0.01}
}

// CentralField pulls every dynamic body toward a fixed point mass. Distances
// below the softening floor are clamped to it. exclude is skipped, typically
// the entity that represents the center itself.
func CentralField(w *ecs.World, center dynamo.Vec3, centerMass float64, exclude ecs.Entity, p Params) int {
	if centerMass <= 0 {
		return 0
	}
	applied := 0
	q := w.Query(component.Dynamic, ecs.Immediate)
	for e, ok := q.Next(); ok; e, ok = q.Next() {
		if e == exclude {
			continue
		}
		phys := component.PhysicsOf(w, e)
		if phys.Static {
			continue
		}
		d := center.Sub(component.TransformOf(w, e).Position)
		r := d.Norm()
		if r == 0 {
			continue
		}
		clamped := r
		if clamped < p.Softening {
			clamped = p.Softening
		}
		mag := p.G * centerMass * phys.Mass / (clamped * clamped)
		phys.Force = phys.Force.Add(d.Scale(mag / r))
		applied++
	}
	return applied
}

// PairwiseNBody accumulates the mutual attraction of every unordered pair in
// the cached query q. The force vector of a pair is computed once and applied
// as +f and -f, so the two contributions are exact negations. Pairs closer
// than the softening floor are skipped. Static bodies exert force but never
// receive it.
func PairwiseNBody(w *ecs.World, q *ecs.Query, p Params) int {
	if q == nil || q.Mode() != ecs.Cached {
		q = w.Query(component.Dynamic, ecs.Cached)
	}
	ents := q.Entities()
	n := len(ents)
	pairs := 0

	for i := 0; i < n; i++ {
		ti := component.TransformOf(w, ents[i])
		pi := component.PhysicsOf(w, ents[i])
		if ti == nil || pi == nil || !pi.Exerts() {
			continue
		}
		for j := i + 1; j < n; j++ {
			pj := component.PhysicsOf(w, ents[j])
			if pj == nil || !pj.Exerts() || (pi.Static && pj.Static) {
				continue
			}
			tj := component.TransformOf(w, ents[j])
			d := tj.Position.Sub(ti.Position)
			r := d.Norm()
			if r < p.Softening {
				continue
			}
			f := d.Scale(p.G * pi.Mass * pj.Mass / (r * r * r))
			if !pi.Static {
				pi.Force = pi.Force.Add(f)
			}
			if !pj.Static {
				pj.Force = pj.Force.Add(f.Neg())
			}
			pairs++
		}
	}
	return pairs
}
