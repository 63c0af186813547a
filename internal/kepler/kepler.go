// Package kepler converts classical orbital elements into state vectors.
//
// Angles are in radians. The reference frame is the usual ecliptic frame with
// z up; returned vectors are in engine coordinates, where y is up, so the
// reference (x, y, z) maps to engine (x, z, y).
package kepler

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	// MaxIterations caps the Newton-Raphson solve of Kepler's equation.
	MaxIterations = 10
	// Tolerance is the correction size at which the solve stops.
	Tolerance = 1e-6
)

var ErrInvalidElements = errors.New("kepler: invalid orbital elements")

// Elements are the six classical elements of a bound orbit.
type Elements struct {
	SemiMajorAxis float64 `yaml:"a" toml:"a"`
	Eccentricity  float64 `yaml:"e" toml:"e"`
	Inclination   float64 `yaml:"i" toml:"i"`
	// LongAscNode is the longitude of the ascending node.
	LongAscNode float64 `yaml:"node" toml:"node"`
	// LongPeriapsis is the longitude of periapsis, node plus argument.
	LongPeriapsis float64 `yaml:"periapsis" toml:"periapsis"`
	MeanLongitude float64 `yaml:"mean_longitude" toml:"mean_longitude"`
}

// Validate rejects elements outside the supported range: a > 0, 0 <= e < 1.
func (el Elements) Validate() error {
	if !(el.SemiMajorAxis > 0) {
		return fmt.Errorf("%w: semi-major axis %g", ErrInvalidElements, el.SemiMajorAxis)
	}
	if !(el.Eccentricity >= 0 && el.Eccentricity < 1) {
		return fmt.Errorf("%w: eccentricity %g", ErrInvalidElements, el.Eccentricity)
	}
	return nil
}

// Period returns 2*pi*sqrt(a^3/mu).
func Period(a, mu float64) float64 {
	return 2 * math.Pi * math.Sqrt(a*a*a/mu)
}

// SolveKepler solves M = E - e*sin(E) for the eccentric anomaly, starting
// from E = M. It stops after MaxIterations without signalling
// non-convergence. M is wrapped into [0, 2*pi) first.
func SolveKepler(m, e float64) (float64, int) {
	m = math.Mod(m, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	ea := m
	iters := 0
	for iters < MaxIterations {
		d := (ea - e*math.Sin(ea) - m) / (1 - e*math.Cos(ea))
		ea -= d
		iters++
		if math.Abs(d) < Tolerance {
			break
		}
	}
	return ea, iters
}

// ElementsToState returns position and velocity relative to the parent for
// gravitational parameter mu. Elements are not validated; call Validate
// first.
func ElementsToState(el Elements, mu float64) (pos, vel dynamo.Vec3) {
	a, e := el.SemiMajorAxis, el.Eccentricity
	omega := el.LongPeriapsis - el.LongAscNode
	meanAnomaly := el.MeanLongitude - el.LongPeriapsis

	ea, _ := SolveKepler(meanAnomaly, e)
	sinE, cosE := math.Sincos(ea)
	b := a * math.Sqrt(1-e*e)

	x := a * (cosE - e)
	y := b * sinE

	n := math.Sqrt(mu / (a * a * a))
	eDot := n / (1 - e*cosE)
	vx := -a * sinE * eDot
	vy := b * cosE * eDot

	p, q := basis(el.LongAscNode, omega, el.Inclination)
	return toEngine(p.Scale(x).Add(q.Scale(y))), toEngine(p.Scale(vx).Add(q.Scale(vy)))
}

// Place validates el and returns the absolute state of a body orbiting a
// parent at parentPos moving with parentVel. Chaining Place down a hierarchy
// builds moon around planet around star systems.
func Place(el Elements, mu float64, parentPos, parentVel dynamo.Vec3) (dynamo.Vec3, dynamo.Vec3, error) {
	if err := el.Validate(); err != nil {
		return dynamo.Vec3{}, dynamo.Vec3{}, err
	}
	if !(mu > 0) {
		return dynamo.Vec3{}, dynamo.Vec3{}, fmt.Errorf("%w: parent mu %g", ErrInvalidElements, mu)
	}
	pos, vel := ElementsToState(el, mu)
	return parentPos.Add(pos), parentVel.Add(vel), nil
}

// basis builds the perifocal P (toward periapsis) and Q unit vectors in the
// reference frame.
func basis(node, omega, inc float64) (dynamo.Vec3, dynamo.Vec3) {
	sO, cO := math.Sincos(node)
	sw, cw := math.Sincos(omega)
	si, ci := math.Sincos(inc)

	p := dynamo.Vec3{
		X: cw*cO - sw*sO*ci,
		Y: cw*sO + sw*cO*ci,
		Z: sw * si,
	}
	q := dynamo.Vec3{
		X: -sw*cO - cw*sO*ci,
		Y: -sw*sO + cw*cO*ci,
		Z: cw * si,
	}
	return p, q
}

func toEngine(v dynamo.Vec3) dynamo.Vec3 {
	return dynamo.Vec3{X: v.X, Y: v.Z, Z: v.Y}
}

// Shape recovers the semi-major axis and eccentricity of the orbit through a
// relative state. ok is false for unbound or degenerate states.
func Shape(relPos, relVel dynamo.Vec3, mu float64) (a, e float64, ok bool) {
	r := relPos.Norm()
	if r == 0 || !(mu > 0) {
		return 0, 0, false
	}
	energy := relVel.Norm2()/2 - mu/r
	if energy >= 0 {
		return 0, 0, false
	}
	a = -mu / (2 * energy)

	h := relPos.Cross(relVel)
	ev := relVel.Cross(h).Scale(1 / mu).Sub(relPos.Scale(1 / r))
	return a, ev.Norm(), true
}
