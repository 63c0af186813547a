package analysis

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/kepler"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scene"
)

// SweepPoint is the outcome of one launch speed.
type SweepPoint struct {
	Factor        float64
	SemiMajorAxis float64
	Eccentricity  float64
	Bound         bool
	Orbits        int
}

// VelocitySweep scales body's velocity relative to the dominant attractor by
// each factor, records the resulting osculating orbit, then runs the scene
// for duration and counts completed orbits.
func VelocitySweep(build Builder, body string, factors []float64, dt, duration float64) ([]SweepPoint, error) {
	results := make([]SweepPoint, 0, len(factors))

	for _, f := range factors {
		sc, err := build()
		if err != nil {
			return nil, err
		}
		w := sc.World()
		e, ok := sc.Lookup(body)
		if !ok {
			return nil, fmt.Errorf("sweep: %w: %q", scene.ErrNotFound, body)
		}
		center, ok := physics.DominantAttractor(w)
		if !ok || center == e {
			return nil, fmt.Errorf("sweep: %q has no attractor", body)
		}

		cp := component.PhysicsOf(w, center)
		bp := component.PhysicsOf(w, e)
		bp.Velocity = cp.Velocity.Add(bp.Velocity.Sub(cp.Velocity).Scale(f))

		relPos := component.TransformOf(w, e).Position.Sub(component.TransformOf(w, center).Position)
		relVel := bp.Velocity.Sub(cp.Velocity)
		mu := sc.Config().Gravity.G * cp.Mass
		if !cp.Static {
			mu += sc.Config().Gravity.G * bp.Mass
		}
		a, ecc, bound := kepler.Shape(relPos, relVel, mu)
		point := SweepPoint{Factor: f, SemiMajorAxis: a, Eccentricity: ecc, Bound: bound}

		for t := 0.0; t < duration; t += dt {
			sc.Step(dt)
		}
		point.Orbits = sc.Tracker().Count(e)

		results = append(results, point)
	}

	return results, nil
}
