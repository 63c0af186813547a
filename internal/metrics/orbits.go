package metrics

import "github.com/san-kum/orbitsim/internal/scene"

// OrbitCount is the number of orbits completed since Reset, counting
// markers the ring has evicted.
type OrbitCount struct {
	base  int
	total int
	first bool
}

func NewOrbitCount() *OrbitCount { return &OrbitCount{first: true} }

func (o *OrbitCount) Name() string { return "orbits" }

func (o *OrbitCount) Observe(s *scene.Scene) {
	m := s.Tracker().Markers()
	n := m.Len() + m.Evicted()
	if o.first {
		o.base = n
		o.first = false
	}
	o.total = n - o.base
}

func (o *OrbitCount) Value() float64 { return float64(o.total) }

func (o *OrbitCount) Reset() {
	o.base = 0
	o.total = 0
	o.first = true
}
