package integrators

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Leapfrog is a kick-drift-kick integrator over a Snapshot.
type Leapfrog struct {
	Field Field
	snap  Snapshot
	acc   []dynamo.Vec3
	half  []dynamo.Vec3
}

func NewLeapfrog(p physics.Params) *Leapfrog {
	return &Leapfrog{Field: Field{Params: p}}
}

// NewPostNewtonian returns a Leapfrog with the 1PN correction enabled for
// light speed c.
func NewPostNewtonian(p physics.Params, c float64) *Leapfrog {
	return &Leapfrog{Field: Field{Params: p, C: c, PostNewtonian: true}}
}

func (l *Leapfrog) Name() string {
	if l.Field.PostNewtonian {
		return "leapfrog-1pn"
	}
	return "leapfrog"
}

func (*Leapfrog) ComputesGravity() bool { return true }

func (l *Leapfrog) ensureScratch(n int) {
	if cap(l.acc) < n {
		l.acc = make([]dynamo.Vec3, n)
		l.half = make([]dynamo.Vec3, n)
	}
	l.acc = l.acc[:n]
	l.half = l.half[:n]
}

// Step advances s in place by dt.
func (l *Leapfrog) Step(s *Snapshot, dt float64) {
	n := s.Len()
	l.ensureScratch(n)
	halfDt := 0.5 * dt

	l.Field.Accelerations(s, s.Pos, s.Vel, l.acc)
	for i := 0; i < n; i++ {
		if s.Fixed[i] {
			l.half[i] = s.Vel[i]
			continue
		}
		l.half[i] = s.Vel[i].Add(l.acc[i].Scale(halfDt))
		s.Pos[i] = s.Pos[i].Add(l.half[i].Scale(dt))
	}

	l.Field.Accelerations(s, s.Pos, l.half, l.acc)
	for i := 0; i < n; i++ {
		if !s.Fixed[i] {
			s.Vel[i] = l.half[i].Add(l.acc[i].Scale(halfDt))
		}
	}
}

// Integrate extracts q's bodies, steps them and writes them back.
func (l *Leapfrog) Integrate(w *ecs.World, q *ecs.Query, dt float64) {
	Extract(w, q, l.Field.Params.G, &l.snap)
	l.Step(&l.snap, dt)
	l.snap.WriteBack(w, l.acc)
}
