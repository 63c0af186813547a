package analysis

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Apsis is one periapsis passage.
type Apsis struct {
	Time   float64
	Radius float64
	// Angle is the direction of periapsis in the orbital plane.
	Angle float64
}

// Periapses records every local minimum of body's distance to center. The
// minimum is refined by fitting a parabola through the neighbouring samples.
func Periapses(res *dynamo.Result, body, center int) []Apsis {
	r := RadialSeries(res, body, center)
	var out []Apsis
	for i := 1; i+1 < len(r); i++ {
		if !(r[i-1] > r[i] && r[i] <= r[i+1]) {
			continue
		}
		frac := 0.0
		if den := r[i-1] - 2*r[i] + r[i+1]; den != 0 {
			frac = 0.5 * (r[i-1] - r[i+1]) / den
		}
		s0, s1 := res.Samples[i], res.Samples[i+1]
		if frac < 0 {
			s0, s1 = res.Samples[i-1], res.Samples[i]
			frac += 1
		}
		d0 := s0.Positions[body].Sub(s0.Positions[center])
		d1 := s1.Positions[body].Sub(s1.Positions[center])
		a0 := math.Atan2(d0.Z, d0.X)
		angle := a0 + frac*wrapAngle(math.Atan2(d1.Z, d1.X)-a0)
		out = append(out, Apsis{
			Time:   s0.Time + frac*(s1.Time-s0.Time),
			Radius: r[i],
			Angle:  wrapAngle(angle),
		})
	}
	return out
}

// Precession returns the mean advance of the periapsis angle per orbit, in
// radians. Positive means the periapsis moves toward increasing atan2(z, x).
func Precession(apses []Apsis) float64 {
	if len(apses) < 2 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(apses); i++ {
		sum += wrapAngle(apses[i].Angle - apses[i-1].Angle)
	}
	return sum / float64(len(apses)-1)
}

func wrapAngle(d float64) float64 {
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
