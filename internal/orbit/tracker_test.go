package orbit_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/kepler"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/physics"
)

func addBody(w *ecs.World, class component.Class, pos, vel dynamo.Vec3, mass float64, static bool) ecs.Entity {
	e, err := w.CreateEntity()
	Expect(err).NotTo(HaveOccurred())
	body, err := component.NewBody(class, 1, 0xffffffff)
	Expect(err).NotTo(HaveOccurred())
	ecs.Add(w, e, component.KindTransform, component.Transform{Position: pos})
	ecs.Add(w, e, component.KindPhysics, component.NewPhysics(vel, mass, static))
	ecs.Add(w, e, component.KindBody, body)
	return e
}

// placeAt moves e to angle theta on a circle of radius r around the origin.
func placeAt(w *ecs.World, e ecs.Entity, r, theta float64) {
	component.TransformOf(w, e).Position = dynamo.Vec3{X: r * math.Cos(theta), Z: r * math.Sin(theta)}
}

var _ = Describe("Tracker", func() {
	var (
		w       *ecs.World
		tracker *orbit.Tracker
	)

	BeforeEach(func() {
		w = ecs.NewWorld(nil)
		tracker = orbit.NewTracker(orbit.DefaultCapacity, nil)
	})

	Context("on the circular reference orbit", func() {
		const (
			mass   = 20.0
			radius = 50.0
			dt     = 0.01
		)
		period := kepler.Period(radius, mass)

		It("emits exactly one marker after one period", func() {
			addBody(w, component.ClassStar, dynamo.Vec3{}, dynamo.Vec3{}, mass, true)
			planet := addBody(w, component.ClassPlanet,
				dynamo.Vec3{X: radius}, dynamo.Vec3{Z: math.Sqrt(mass / radius)}, 1, false)
			tracker.Name = func(ecs.Entity) string { return "planet" }

			q := w.Query(component.Dynamic, ecs.Cached)
			p := physics.Params{G: 1, Softening: 0.01}
			tracker.Observe(w, 0)

			var markers []orbit.Marker
			steps := int(math.Round(period / dt))
			for i := 1; i <= steps; i++ {
				physics.PairwiseNBody(w, q, p)
				integrators.SymplecticEuler(w, q, dt)
				markers = append(markers, tracker.Observe(w, float64(i)*dt)...)
			}

			Expect(markers).To(HaveLen(1))
			m := markers[0]
			Expect(m.Entity).To(Equal(planet))
			Expect(m.Name).To(Equal("planet"))
			Expect(m.Number).To(Equal(1))
			Expect(m.Time).To(BeNumerically("~", float64(steps)*dt, 1e-9))
			Expect(m.Period).To(BeNumerically("~", 496.73, dt))
			Expect(tracker.Count(planet)).To(Equal(1))
			Expect(tracker.Markers().Len()).To(Equal(1))
		})
	})

	It("does nothing without a star or black hole", func() {
		addBody(w, component.ClassPlanet, dynamo.Vec3{}, dynamo.Vec3{}, 100, true)
		moon := addBody(w, component.ClassMoon, dynamo.Vec3{X: 1}, dynamo.Vec3{}, 1, false)

		for i := 0; i <= 40; i++ {
			placeAt(w, moon, 1, float64(i)*0.5)
			Expect(tracker.Observe(w, float64(i))).To(BeEmpty())
		}
		Expect(tracker.Markers().Len()).To(BeZero())
	})

	It("stays silent on the first observation", func() {
		addBody(w, component.ClassStar, dynamo.Vec3{}, dynamo.Vec3{}, 10, true)
		addBody(w, component.ClassPlanet, dynamo.Vec3{X: 5}, dynamo.Vec3{}, 1, false)

		Expect(tracker.Observe(w, 0)).To(BeEmpty())
	})

	It("counts retrograde orbits and keeps residual phase", func() {
		addBody(w, component.ClassStar, dynamo.Vec3{}, dynamo.Vec3{}, 10, true)
		planet := addBody(w, component.ClassPlanet, dynamo.Vec3{}, dynamo.Vec3{}, 1, false)

		step := -0.3
		var markers []orbit.Marker
		for i := 0; i <= 44; i++ {
			placeAt(w, planet, 5, float64(i)*step)
			markers = append(markers, tracker.Observe(w, float64(i))...)
		}

		// 44 steps of 0.3 rad sweep 13.2 rad: two full turns.
		Expect(markers).To(HaveLen(2))
		Expect(markers[0].Number).To(Equal(1))
		Expect(markers[1].Number).To(Equal(2))
		// First crossing after 21 steps (6.3 rad), second after 21 more thanks to the kept residual.
		Expect(markers[0].Time).To(BeNumerically("==", 21))
		Expect(markers[1].Period).To(BeNumerically("==", 21))
	})

	It("crosses the atan2 discontinuity without spurious turns", func() {
		addBody(w, component.ClassStar, dynamo.Vec3{}, dynamo.Vec3{}, 10, true)
		planet := addBody(w, component.ClassPlanet, dynamo.Vec3{}, dynamo.Vec3{}, 1, false)

		for i, theta := range []float64{3.0, 3.1, -3.1, -3.0, 3.0} {
			placeAt(w, planet, 5, theta)
			Expect(tracker.Observe(w, float64(i))).To(BeEmpty())
		}
	})

	It("tracks moons relative to the heaviest attractor", func() {
		addBody(w, component.ClassStar, dynamo.Vec3{}, dynamo.Vec3{}, 5, true)
		heavy := addBody(w, component.ClassBlackHole, dynamo.Vec3{X: 100}, dynamo.Vec3{}, 500, true)
		planet := addBody(w, component.ClassPlanet, dynamo.Vec3{}, dynamo.Vec3{}, 1, false)

		var markers []orbit.Marker
		for i := 0; i <= 9; i++ {
			theta := float64(i) * math.Pi / 4
			component.TransformOf(w, planet).Position = dynamo.Vec3{X: 100 + 3*math.Cos(theta), Z: 3 * math.Sin(theta)}
			markers = append(markers, tracker.Observe(w, float64(i))...)
		}
		Expect(markers).To(HaveLen(1))
		Expect(tracker.Count(heavy)).To(BeZero())
	})

	It("forgets destroyed bodies", func() {
		addBody(w, component.ClassStar, dynamo.Vec3{}, dynamo.Vec3{}, 10, true)
		planet := addBody(w, component.ClassPlanet, dynamo.Vec3{}, dynamo.Vec3{}, 1, false)

		for i := 0; i <= 30; i++ {
			placeAt(w, planet, 5, float64(i)*0.3)
			tracker.Observe(w, float64(i))
		}
		Expect(tracker.Count(planet)).To(Equal(1))

		tracker.Forget(planet)
		Expect(tracker.Count(planet)).To(BeZero())
	})
})

var _ = Describe("Markers", func() {
	It("evicts the oldest entry once full and reports it", func() {
		r := orbit.NewMarkers(3)
		for i := 1; i <= 3; i++ {
			_, evicted := r.Push(orbit.Marker{Number: i})
			Expect(evicted).To(BeFalse())
		}

		old, evicted := r.Push(orbit.Marker{Number: 4})
		Expect(evicted).To(BeTrue())
		Expect(old.Number).To(Equal(1))
		Expect(r.Evicted()).To(Equal(1))
		Expect(r.Len()).To(Equal(3))

		numbers := []int{}
		for _, m := range r.All() {
			numbers = append(numbers, m.Number)
		}
		Expect(numbers).To(Equal([]int{2, 3, 4}))

		latest, ok := r.Latest()
		Expect(ok).To(BeTrue())
		Expect(latest.Number).To(Equal(4))
	})

	It("holds 64 markers by default", func() {
		r := orbit.NewMarkers(0)
		Expect(r.Cap()).To(Equal(64))
		for i := 0; i < 100; i++ {
			r.Push(orbit.Marker{Number: i})
		}
		Expect(r.Len()).To(Equal(64))
		Expect(r.Evicted()).To(Equal(36))
		Expect(r.At(0).Number).To(Equal(36))
	})

	It("reports empty state", func() {
		r := orbit.NewMarkers(4)
		_, ok := r.Latest()
		Expect(ok).To(BeFalse())
		Expect(r.All()).To(BeEmpty())
	})
})
