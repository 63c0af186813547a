// Package orbit detects completed revolutions around the dominant attractor.
package orbit

import (
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/component"
	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/physics"
)

const fullTurn = 2 * math.Pi

type trackState struct {
	prevAngle    float64
	acc          float64
	lastCrossing float64
	count        int
}

// Tracker accumulates the signed swept angle of every dynamic body around the
// heaviest star or black hole and records a Marker per full turn.
type Tracker struct {
	states    map[ecs.Entity]*trackState
	attractor ecs.Entity
	markers   *Markers
	// Name resolves display names for markers. May be nil.
	Name func(ecs.Entity) string
	log  *zap.Logger
}

func NewTracker(capacity int, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		states:  make(map[ecs.Entity]*trackState),
		markers: NewMarkers(capacity),
		log:     log,
	}
}

func (t *Tracker) Markers() *Markers { return t.markers }

// Count returns the number of orbits completed by e.
func (t *Tracker) Count(e ecs.Entity) int {
	if st, ok := t.states[e]; ok {
		return st.count
	}
	return 0
}

// Forget drops e's tracking state.
func (t *Tracker) Forget(e ecs.Entity) {
	delete(t.states, e)
}

// Reset drops all tracking state and markers.
func (t *Tracker) Reset() {
	clear(t.states)
	t.markers.Clear()
	t.attractor = ecs.Invalid
}

// Observe advances tracking to time now and returns the markers completed
// during this call. Nothing happens when the scene has no star or black hole.
// If the dominant attractor changed, every body starts over from its current
// angle.
func (t *Tracker) Observe(w *ecs.World, now float64) []Marker {
	center, ok := physics.DominantAttractor(w)
	if !ok {
		return nil
	}
	if center != t.attractor {
		if t.attractor != ecs.Invalid {
			t.log.Debug("dominant attractor changed", zap.Uint32("from", uint32(t.attractor)), zap.Uint32("to", uint32(center)))
		}
		clear(t.states)
		t.attractor = center
	}
	origin := component.TransformOf(w, center).Position

	var done []Marker
	q := w.Query(component.Dynamic, ecs.Immediate)
	for e, ok := q.Next(); ok; e, ok = q.Next() {
		if e == center || component.PhysicsOf(w, e).Static {
			continue
		}
		pos := component.TransformOf(w, e).Position
		d := pos.Sub(origin)
		angle := math.Atan2(d.Z, d.X)

		st, seen := t.states[e]
		if !seen {
			t.states[e] = &trackState{prevAngle: angle, lastCrossing: now}
			continue
		}

		st.acc += wrap(angle - st.prevAngle)
		st.prevAngle = angle
		if math.Abs(st.acc) < fullTurn {
			continue
		}

		st.count++
		if st.acc > 0 {
			st.acc -= fullTurn
		} else {
			st.acc += fullTurn
		}
		m := Marker{
			Entity:   e,
			Time:     now,
			Position: pos,
			Number:   st.count,
			Period:   now - st.lastCrossing,
		}
		if t.Name != nil {
			m.Name = t.Name(e)
		}
		st.lastCrossing = now

		if old, evicted := t.markers.Push(m); evicted {
			t.log.Debug("orbit marker evicted", zap.Uint32("entity", uint32(old.Entity)), zap.Int("number", old.Number))
		}
		done = append(done, m)
	}
	return done
}

// wrap maps an angle difference into (-pi, pi].
func wrap(d float64) float64 {
	for d > math.Pi {
		d -= fullTurn
	}
	for d <= -math.Pi {
		d += fullTurn
	}
	return d
}
