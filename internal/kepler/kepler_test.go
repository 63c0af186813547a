package kepler_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/kepler"
)

var _ = Describe("SolveKepler", func() {
	DescribeTable("periapsis at M = 0",
		func(e float64) {
			ea, iters := kepler.SolveKepler(0, e)
			Expect(ea).To(BeNumerically("==", 0))
			Expect(iters).To(BeNumerically("<=", 1))
		},
		Entry("circular", 0.0),
		Entry("mild", 0.2),
		Entry("eccentric", 0.7),
		Entry("extreme", 0.99),
	)

	DescribeTable("apoapsis at M = pi",
		func(e float64) {
			ea, _ := kepler.SolveKepler(math.Pi, e)
			Expect(ea).To(BeNumerically("~", math.Pi, 1e-12))
		},
		Entry("circular", 0.0),
		Entry("mild", 0.2),
		Entry("eccentric", 0.7),
	)

	It("satisfies Kepler's equation for moderate eccentricity", func() {
		for _, e := range []float64{0, 0.1, 0.3, 0.5, 0.6} {
			for m := 0.05; m < 2*math.Pi; m += 0.37 {
				ea, _ := kepler.SolveKepler(m, e)
				Expect(ea-e*math.Sin(ea)).To(BeNumerically("~", m, 1e-6), "e=%v M=%v", e, m)
			}
		}
	})

	It("wraps the mean anomaly into [0, 2pi)", func() {
		a, _ := kepler.SolveKepler(-math.Pi/2, 0.1)
		b, _ := kepler.SolveKepler(3*math.Pi/2, 0.1)
		Expect(a).To(BeNumerically("~", b, 1e-12))
	})

	It("stops at the iteration cap", func() {
		_, iters := kepler.SolveKepler(0.001, 0.9999)
		Expect(iters).To(BeNumerically("<=", kepler.MaxIterations))
	})
})

var _ = Describe("ElementsToState", func() {
	const mu = 20.0

	It("places a circular orbit in the engine's horizontal plane", func() {
		pos, vel := kepler.ElementsToState(kepler.Elements{SemiMajorAxis: 50}, mu)

		Expect(pos.X).To(BeNumerically("~", 50, 1e-9))
		Expect(pos.Y).To(BeNumerically("~", 0, 1e-9))
		Expect(pos.Z).To(BeNumerically("~", 0, 1e-9))
		Expect(vel.Z).To(BeNumerically("~", math.Sqrt(mu/50), 1e-9))
		Expect(vel.Y).To(BeNumerically("~", 0, 1e-9))
	})

	It("puts periapsis at distance a(1-e)", func() {
		el := kepler.Elements{SemiMajorAxis: 10, Eccentricity: 0.4, LongPeriapsis: 1.1, MeanLongitude: 1.1}
		pos, vel := kepler.ElementsToState(el, mu)

		Expect(pos.Norm()).To(BeNumerically("~", 6, 1e-9))
		Expect(pos.Dot(vel)).To(BeNumerically("~", 0, 1e-9))
	})

	It("conserves vis-viva and angular momentum at any phase", func() {
		el := kepler.Elements{
			SemiMajorAxis: 7,
			Eccentricity:  0.3,
			Inclination:   0.4,
			LongAscNode:   1.2,
			LongPeriapsis: 2.0,
		}
		h := math.Sqrt(mu * el.SemiMajorAxis * (1 - el.Eccentricity*el.Eccentricity))

		for l := 0.0; l < 2*math.Pi; l += 0.5 {
			el.MeanLongitude = l
			pos, vel := kepler.ElementsToState(el, mu)
			r := pos.Norm()

			Expect(vel.Norm2()).To(BeNumerically("~", mu*(2/r-1/el.SemiMajorAxis), 1e-9))
			Expect(pos.Cross(vel).Norm()).To(BeNumerically("~", h, 1e-9))
		}
	})

	It("tilts the orbit out of the horizontal plane by the inclination", func() {
		el := kepler.Elements{SemiMajorAxis: 5, Inclination: math.Pi / 2, MeanLongitude: math.Pi / 2}
		pos, _ := kepler.ElementsToState(el, mu)

		Expect(pos.Y).To(BeNumerically("~", 5, 1e-9))
	})

	It("is recovered by Shape", func() {
		el := kepler.Elements{SemiMajorAxis: 12, Eccentricity: 0.25, Inclination: 0.3, MeanLongitude: 0.8}
		pos, vel := kepler.ElementsToState(el, mu)

		a, e, ok := kepler.Shape(pos, vel, mu)
		Expect(ok).To(BeTrue())
		Expect(a).To(BeNumerically("~", 12, 1e-9))
		Expect(e).To(BeNumerically("~", 0.25, 1e-9))
	})
})

var _ = Describe("Place", func() {
	It("adds the parent's state for nested hierarchies", func() {
		star := dynamo.Vec3{}
		planetPos, planetVel, err := kepler.Place(kepler.Elements{SemiMajorAxis: 100}, 1000, star, dynamo.Vec3{})
		Expect(err).NotTo(HaveOccurred())

		moonPos, moonVel, err := kepler.Place(kepler.Elements{SemiMajorAxis: 2}, 1, planetPos, planetVel)
		Expect(err).NotTo(HaveOccurred())

		rel, relVel := kepler.ElementsToState(kepler.Elements{SemiMajorAxis: 2}, 1)
		Expect(moonPos.Sub(planetPos).Distance(rel)).To(BeNumerically("<", 1e-12))
		Expect(moonVel.Sub(planetVel).Distance(relVel)).To(BeNumerically("<", 1e-12))
		Expect(moonPos.X).To(BeNumerically("~", 102, 1e-9))
	})

	DescribeTable("rejects unsupported elements",
		func(el kepler.Elements, mu float64) {
			_, _, err := kepler.Place(el, mu, dynamo.Vec3{}, dynamo.Vec3{})
			Expect(err).To(MatchError(kepler.ErrInvalidElements))
		},
		Entry("zero semi-major axis", kepler.Elements{}, 1.0),
		Entry("negative semi-major axis", kepler.Elements{SemiMajorAxis: -1}, 1.0),
		Entry("parabolic", kepler.Elements{SemiMajorAxis: 1, Eccentricity: 1}, 1.0),
		Entry("negative eccentricity", kepler.Elements{SemiMajorAxis: 1, Eccentricity: -0.1}, 1.0),
		Entry("massless parent", kepler.Elements{SemiMajorAxis: 1}, 0.0),
	)
})

var _ = Describe("Period", func() {
	It("matches 2*pi*sqrt(r^3/GM)", func() {
		Expect(kepler.Period(50, 20)).To(BeNumerically("~", 496.729, 1e-3))
	})
})
