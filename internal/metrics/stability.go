package metrics

import (
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scene"
)

// Containment is the fraction of ticks on which every body stayed within
// radius of the dominant attractor, or of the origin when there is none.
type Containment struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		name:   "containment",
		radius: radius,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s *scene.Scene) {
	c.samples++

	var origin [3]float64
	if center, ok := physics.DominantAttractor(s.World()); ok {
		for _, b := range s.Bodies() {
			if b.Entity == center {
				origin = [3]float64{b.Position.X, b.Position.Y, b.Position.Z}
				break
			}
		}
	}

	r2 := c.radius * c.radius
	for _, b := range s.Bodies() {
		dx := b.Position.X - origin[0]
		dy := b.Position.Y - origin[1]
		dz := b.Position.Z - origin[2]
		if dx*dx+dy*dy+dz*dz > r2 {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
