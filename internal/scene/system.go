package scene

import "sort"

// Phase orders systems within a tick.
type Phase int

const (
	PhaseForces        Phase = iota // accumulate gravity
	PhaseIntegrate                  // advance state, clear forces
	PhasePostIntegrate              // collisions, tidal lock
	PhaseObserve                    // orbit tracking
	PhaseCleanup                    // flush deferred events
)

// System is one step of the tick pipeline.
type System interface {
	Phase() Phase
	Update(dt float64)
}

// Runner executes systems in phase order. Systems of the same phase run in
// registration order.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{systems: make([]System, 0, 8)}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner) Tick(dt float64) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
