package sim

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/scene"
)

// Metric accumulates a scalar over a run. Observe is called after every
// tick.
type Metric interface {
	Name() string
	Observe(s *scene.Scene)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *scene.Scene)
}

// Result extends the sampled trajectory with the orbit markers still held
// in the scene's ring when the run ended.
type Result struct {
	dynamo.Result
	Markers []orbit.Marker
	// Orbits is the total number of completed orbits, including markers the
	// ring has since evicted.
	Orbits int
}
