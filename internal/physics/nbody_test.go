package physics

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
)

func spawn(t *testing.T, w *ecs.World, pos dynamo.Vec3, mass float64, static bool) ecs.Entity {
	t.Helper()
	e, err := w.CreateEntity()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ecs.Add(w, e, component.KindTransform, component.Transform{Position: pos})
	ecs.Add(w, e, component.KindPhysics, component.NewPhysics(dynamo.Vec3{}, mass, static))
	return e
}

func TestPairwiseThirdLaw(t *testing.T) {
	w := ecs.NewWorld(nil)
	a := spawn(t, w, dynamo.Vec3{X: 0.3, Y: -1.7, Z: 2.1}, 3.7, false)
	b := spawn(t, w, dynamo.Vec3{X: -4.2, Y: 0.9, Z: 1.3}, 11.1, false)

	PairwiseNBody(w, w.Query(component.Dynamic, ecs.Cached), DefaultParams())

	fa := component.PhysicsOf(w, a).Force
	fb := component.PhysicsOf(w, b).Force
	if fa != fb.Neg() {
		t.Errorf("forces are not exact negations: %v vs %v", fa, fb)
	}
	if fa.Norm() == 0 {
		t.Error("expected a non-zero force")
	}
}

func TestPairwiseMagnitude(t *testing.T) {
	w := ecs.NewWorld(nil)
	a := spawn(t, w, dynamo.Vec3{}, 2, false)
	spawn(t, w, dynamo.Vec3{X: 2}, 3, false)

	PairwiseNBody(w, nil, Params{G: 1, Softening: 0.01})

	got := component.PhysicsOf(w, a).Force
	want := dynamo.Vec3{X: 2 * 3 / 4.0}
	if math.Abs(got.X-want.X) > 1e-12 || got.Y != 0 || got.Z != 0 {
		t.Errorf("force = %v, want %v", got, want)
	}
}

func TestPairwiseMomentumBalance(t *testing.T) {
	w := ecs.NewWorld(nil)
	spawn(t, w, dynamo.Vec3{X: 1}, 1, false)
	spawn(t, w, dynamo.Vec3{Y: 2}, 5, false)
	spawn(t, w, dynamo.Vec3{Z: -3, X: 1}, 0.5, false)
	spawn(t, w, dynamo.Vec3{X: -2, Y: -2}, 7, false)

	PairwiseNBody(w, nil, DefaultParams())

	var sum dynamo.Vec3
	q := w.Query(component.Dynamic, ecs.Cached)
	for e, ok := q.Next(); ok; e, ok = q.Next() {
		sum = sum.Add(component.PhysicsOf(w, e).Force)
	}
	if sum.Norm() > 1e-12 {
		t.Errorf("net internal force = %v, want zero", sum)
	}
}

func TestPairwiseSkipsBelowSoftening(t *testing.T) {
	w := ecs.NewWorld(nil)
	a := spawn(t, w, dynamo.Vec3{}, 1, false)
	b := spawn(t, w, dynamo.Vec3{X: 0.001}, 1, false)

	pairs := PairwiseNBody(w, nil, Params{G: 1, Softening: 0.01})

	if pairs != 0 {
		t.Errorf("pairs = %d, want 0", pairs)
	}
	if component.PhysicsOf(w, a).Force != (dynamo.Vec3{}) || component.PhysicsOf(w, b).Force != (dynamo.Vec3{}) {
		t.Error("coincident pair received force")
	}
}

func TestEnergySkipsBelowSoftening(t *testing.T) {
	w := ecs.NewWorld(nil)
	a := spawn(t, w, dynamo.Vec3{}, 1, false)
	spawn(t, w, dynamo.Vec3{X: 0.001}, 1, false)
	component.PhysicsOf(w, a).Velocity = dynamo.Vec3{X: 2}

	// Only a's kinetic energy; the pair is inside the softening floor.
	if e := Energy(w, Params{G: 1, Softening: 0.01}); e != 2 {
		t.Errorf("energy = %v, want 2", e)
	}
}

func TestPairwiseStaticAndMassless(t *testing.T) {
	w := ecs.NewWorld(nil)
	sun := spawn(t, w, dynamo.Vec3{}, 100, true)
	planet := spawn(t, w, dynamo.Vec3{X: 10}, 1, false)
	dust := spawn(t, w, dynamo.Vec3{Z: 10}, 0, false)
	anchor := spawn(t, w, dynamo.Vec3{Y: 5}, 50, true)

	PairwiseNBody(w, nil, DefaultParams())

	if f := component.PhysicsOf(w, sun).Force; f != (dynamo.Vec3{}) {
		t.Errorf("static body accumulated %v", f)
	}
	if f := component.PhysicsOf(w, anchor).Force; f != (dynamo.Vec3{}) {
		t.Errorf("static body accumulated %v", f)
	}
	if f := component.PhysicsOf(w, dust).Force; f != (dynamo.Vec3{}) {
		t.Errorf("massless body accumulated %v", f)
	}
	if f := component.PhysicsOf(w, planet).Force; f.X >= 0 {
		t.Errorf("planet should be pulled toward the sun, got %v", f)
	}
}

func TestCentralField(t *testing.T) {
	w := ecs.NewWorld(nil)
	center := spawn(t, w, dynamo.Vec3{}, 20, true)
	body := spawn(t, w, dynamo.Vec3{X: 50}, 1, false)
	near := spawn(t, w, dynamo.Vec3{Z: 0.001}, 1, false)

	p := Params{G: 1, Softening: 0.01}
	n := CentralField(w, dynamo.Vec3{}, 20, center, p)
	if n != 2 {
		t.Errorf("applied to %d bodies, want 2", n)
	}

	f := component.PhysicsOf(w, body).Force
	if math.Abs(f.X+20.0/2500) > 1e-12 {
		t.Errorf("force = %v, want %v along -x", f, -20.0/2500)
	}

	fn := component.PhysicsOf(w, near).Force
	if math.Abs(fn.Z+20/(p.Softening*p.Softening)) > 1e-6 {
		t.Errorf("near force = %v, want clamped magnitude %v", fn, 20/(p.Softening*p.Softening))
	}
	if component.PhysicsOf(w, center).Force != (dynamo.Vec3{}) {
		t.Error("excluded center received force")
	}
}

func TestConservedQuantities(t *testing.T) {
	w := ecs.NewWorld(nil)
	a := spawn(t, w, dynamo.Vec3{X: 1}, 2, false)
	b := spawn(t, w, dynamo.Vec3{X: -1}, 2, false)
	component.PhysicsOf(w, a).Velocity = dynamo.Vec3{Z: 1}
	component.PhysicsOf(w, b).Velocity = dynamo.Vec3{Z: -1}

	if p := Momentum(w); p.Norm() != 0 {
		t.Errorf("momentum = %v, want zero", p)
	}
	l := AngularMomentum(w)
	if math.Abs(l.Y+4) > 1e-12 {
		t.Errorf("angular momentum = %v, want Y=-4", l)
	}
	e := Energy(w, DefaultParams())
	want := 2.0 - 4.0/2
	if math.Abs(e-want) > 1e-12 {
		t.Errorf("energy = %v, want %v", e, want)
	}
}

func TestDominantAttractor(t *testing.T) {
	w := ecs.NewWorld(nil)
	if _, ok := DominantAttractor(w); ok {
		t.Fatal("empty world has no attractor")
	}

	add := func(class component.Class, mass float64) ecs.Entity {
		e := spawn(t, w, dynamo.Vec3{}, mass, false)
		b, _ := component.NewBody(class, 1, 0)
		ecs.Add(w, e, component.KindBody, b)
		return e
	}
	add(component.ClassPlanet, 1000)
	add(component.ClassStar, 10)
	bh := add(component.ClassBlackHole, 50)

	got, ok := DominantAttractor(w)
	if !ok || got != bh {
		t.Errorf("attractor = %d, %v; want %d", got, ok, bh)
	}
}
