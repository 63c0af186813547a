package integrators

import (
	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Snapshot is a structure-of-arrays copy of the dynamic bodies. Index i of
// every slice refers to Entities[i]. Buffers are reused across Extract calls.
type Snapshot struct {
	Entities []ecs.Entity
	Pos      []dynamo.Vec3
	Vel      []dynamo.Vec3
	// Ext is the force accumulated by other systems before extraction. It is
	// held constant over the step.
	Ext   []dynamo.Vec3
	Mass  []float64
	GM    []float64
	Fixed []bool
}

func (s *Snapshot) Len() int { return len(s.Entities) }

func (s *Snapshot) reset() {
	s.Entities = s.Entities[:0]
	s.Pos = s.Pos[:0]
	s.Vel = s.Vel[:0]
	s.Ext = s.Ext[:0]
	s.Mass = s.Mass[:0]
	s.GM = s.GM[:0]
	s.Fixed = s.Fixed[:0]
}

// Extract fills s from every entity matched by q.
func Extract(w *ecs.World, q *ecs.Query, g float64, s *Snapshot) {
	s.reset()
	if q == nil {
		q = w.Query(component.Dynamic, ecs.Cached)
	} else {
		q.Reset()
	}
	for e, ok := q.Next(); ok; e, ok = q.Next() {
		tr := component.TransformOf(w, e)
		phys := component.PhysicsOf(w, e)
		if tr == nil || phys == nil {
			continue
		}
		gm := 0.0
		if phys.Mass > 0 {
			gm = g * phys.Mass
		}
		s.Entities = append(s.Entities, e)
		s.Pos = append(s.Pos, tr.Position)
		s.Vel = append(s.Vel, phys.Velocity)
		s.Ext = append(s.Ext, phys.Force)
		s.Mass = append(s.Mass, phys.Mass)
		s.GM = append(s.GM, gm)
		s.Fixed = append(s.Fixed, phys.Static)
	}
}

// WriteBack stores positions, velocities and the last accelerations into w
// and clears every force accumulator. acc may be nil.
func (s *Snapshot) WriteBack(w *ecs.World, acc []dynamo.Vec3) {
	for i, e := range s.Entities {
		tr := component.TransformOf(w, e)
		phys := component.PhysicsOf(w, e)
		if tr == nil || phys == nil {
			continue
		}
		if !s.Fixed[i] {
			tr.Position = s.Pos[i]
			phys.Velocity = s.Vel[i]
			if acc != nil {
				phys.Acceleration = acc[i]
			}
		}
		phys.Force = dynamo.Vec3{}
	}
}

// Field evaluates accelerations over a snapshot.
type Field struct {
	Params physics.Params
	// C is the speed of light in simulation units. PostNewtonian adds the
	// first order correction of each attractor's Schwarzschild field.
	C             float64
	PostNewtonian bool
}

// Accelerations writes into out the acceleration of every body at the given
// positions and velocities. Pairs below the softening floor are skipped.
func (f *Field) Accelerations(s *Snapshot, pos, vel, out []dynamo.Vec3) {
	n := len(pos)
	for i := 0; i < n; i++ {
		out[i] = dynamo.Vec3{}
		if s.Mass[i] > 0 {
			out[i] = s.Ext[i].Scale(1 / s.Mass[i])
		}
	}

	soft := f.Params.Softening
	pn := f.PostNewtonian && f.C > 0
	c2 := f.C * f.C

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if s.GM[i] == 0 && s.GM[j] == 0 {
				continue
			}
			d := pos[j].Sub(pos[i])
			r := d.Norm()
			if r < soft {
				continue
			}
			inv3 := 1 / (r * r * r)
			if !s.Fixed[i] && s.GM[j] != 0 {
				out[i] = out[i].Add(d.Scale(s.GM[j] * inv3))
				if pn {
					out[i] = out[i].Add(correction(pos[i].Sub(pos[j]), vel[i].Sub(vel[j]), s.GM[j], r, c2))
				}
			}
			if !s.Fixed[j] && s.GM[i] != 0 {
				out[j] = out[j].Sub(d.Scale(s.GM[i] * inv3))
				if pn {
					out[j] = out[j].Add(correction(d, vel[j].Sub(vel[i]), s.GM[i], r, c2))
				}
			}
		}
	}
}

// correction is the 1PN term for a test body at relative position r and
// velocity v around mass gm:
// gm/(c^2 |r|^3) * ((4gm/|r| - v^2) r + 4 (r.v) v).
func correction(r, v dynamo.Vec3, gm, dist, c2 float64) dynamo.Vec3 {
	k := gm / (c2 * dist * dist * dist)
	radial := r.Scale(4*gm/dist - v.Norm2())
	tangential := v.Scale(4 * r.Dot(v))
	return radial.Add(tangential).Scale(k)
}
