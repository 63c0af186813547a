package integrators

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/physics"
)

// RK4 is a classical fourth order Runge-Kutta step over a Snapshot. It is not
// symplectic and drifts in energy over long runs, but is accurate per step,
// which makes it a useful reference.
type RK4 struct {
	Field Field
	snap  Snapshot

	kx, kv  [4][]dynamo.Vec3
	px, pv  []dynamo.Vec3
	lastAcc []dynamo.Vec3
}

func NewRK4(p physics.Params) *RK4 {
	return &RK4{Field: Field{Params: p}}
}

func (*RK4) Name() string          { return "rk4" }
func (*RK4) ComputesGravity() bool { return true }

func (r *RK4) ensureScratch(n int) {
	if len(r.px) == n {
		return
	}
	for k := range r.kx {
		r.kx[k] = make([]dynamo.Vec3, n)
		r.kv[k] = make([]dynamo.Vec3, n)
	}
	r.px = make([]dynamo.Vec3, n)
	r.pv = make([]dynamo.Vec3, n)
	r.lastAcc = make([]dynamo.Vec3, n)
}

// Step advances s in place by dt.
func (r *RK4) Step(s *Snapshot, dt float64) {
	n := s.Len()
	r.ensureScratch(n)

	weights := [4]float64{0, 0.5, 0.5, 1}
	for k := 0; k < 4; k++ {
		pos, vel := s.Pos, s.Vel
		if k > 0 {
			h := dt * weights[k]
			for i := 0; i < n; i++ {
				if s.Fixed[i] {
					r.px[i], r.pv[i] = s.Pos[i], s.Vel[i]
					continue
				}
				r.px[i] = s.Pos[i].Add(r.kx[k-1][i].Scale(h))
				r.pv[i] = s.Vel[i].Add(r.kv[k-1][i].Scale(h))
			}
			pos, vel = r.px, r.pv
		}
		copy(r.kx[k], vel)
		r.Field.Accelerations(s, pos, vel, r.kv[k])
	}
	copy(r.lastAcc, r.kv[0])

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		if s.Fixed[i] {
			continue
		}
		dx := r.kx[0][i].Add(r.kx[1][i].Scale(2)).Add(r.kx[2][i].Scale(2)).Add(r.kx[3][i])
		dv := r.kv[0][i].Add(r.kv[1][i].Scale(2)).Add(r.kv[2][i].Scale(2)).Add(r.kv[3][i])
		s.Pos[i] = s.Pos[i].Add(dx.Scale(dt6))
		s.Vel[i] = s.Vel[i].Add(dv.Scale(dt6))
	}
}

func (r *RK4) Integrate(w *ecs.World, q *ecs.Query, dt float64) {
	Extract(w, q, r.Field.Params.G, &r.snap)
	r.Step(&r.snap, dt)
	r.snap.WriteBack(w, r.lastAcc)
}
