package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/scene"
)

// Builder returns a freshly populated scene. Successive calls must build
// identical scenes.
type Builder func() (*scene.Scene, error)

// LyapunovExponent estimates the largest Lyapunov exponent of the scene by
// trajectory separation. A twin scene has body displaced by perturbation
// along x; after every tick the phase-space separation is measured, logged
// and renormalised back to the initial distance. A positive value indicates
// chaos.
func LyapunovExponent(build Builder, body string, perturbation, dt, duration float64) (float64, error) {
	if perturbation <= 0 || dt <= 0 || duration <= 0 {
		return 0, fmt.Errorf("lyapunov: perturbation, dt and duration must be positive")
	}
	ref, err := build()
	if err != nil {
		return 0, err
	}
	twin, err := build()
	if err != nil {
		return 0, err
	}
	e, ok := twin.Lookup(body)
	if !ok {
		return 0, fmt.Errorf("lyapunov: %w: %q", scene.ErrNotFound, body)
	}
	component.TransformOf(twin.World(), e).Position.X += perturbation

	d0 := perturbation
	sumLog := 0.0
	t := 0.0

	for t < duration {
		ref.Step(dt)
		twin.Step(dt)
		t += dt

		sep := separation(ref, twin)
		if sep == 0 || math.IsNaN(sep) {
			continue
		}
		sumLog += math.Log(sep / d0)
		renormalize(ref, twin, d0/sep)
	}

	if t == 0 {
		return 0, nil
	}
	return sumLog / t, nil
}

// separation is the phase-space distance over bodies alive in both scenes.
func separation(a, b *scene.Scene) float64 {
	wa, wb := a.World(), b.World()
	sum := 0.0
	for _, s := range a.Bodies() {
		if !wb.Alive(s.Entity) {
			continue
		}
		dp := component.TransformOf(wb, s.Entity).Position.Sub(component.TransformOf(wa, s.Entity).Position)
		dv := component.PhysicsOf(wb, s.Entity).Velocity.Sub(component.PhysicsOf(wa, s.Entity).Velocity)
		sum += dp.Norm2() + dv.Norm2()
	}
	return math.Sqrt(sum)
}

// renormalize pulls every body of b toward its counterpart in a.
func renormalize(a, b *scene.Scene, scale float64) {
	wa, wb := a.World(), b.World()
	for _, s := range a.Bodies() {
		if !wb.Alive(s.Entity) {
			continue
		}
		ta, tb := component.TransformOf(wa, s.Entity), component.TransformOf(wb, s.Entity)
		tb.Position = ta.Position.Add(tb.Position.Sub(ta.Position).Scale(scale))
		pa, pb := component.PhysicsOf(wa, s.Entity), component.PhysicsOf(wb, s.Entity)
		pb.Velocity = pa.Velocity.Add(pb.Velocity.Sub(pa.Velocity).Scale(scale))
	}
}
