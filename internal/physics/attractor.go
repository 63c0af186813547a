package physics

import (
	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/ecs"
)

// DominantAttractor returns the heaviest star or black hole in w. Ties keep
// the lowest id.
func DominantAttractor(w *ecs.World) (ecs.Entity, bool) {
	best, bestMass := ecs.Invalid, 0.0
	q := w.Query(component.Celestial, ecs.Immediate)
	for e, ok := q.Next(); ok; e, ok = q.Next() {
		if !component.BodyOf(w, e).Class().Attractor() {
			continue
		}
		if m := component.PhysicsOf(w, e).Mass; best == ecs.Invalid || m > bestMass {
			best, bestMass = e, m
		}
	}
	return best, best != ecs.Invalid
}
