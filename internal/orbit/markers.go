package orbit

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
)

// DefaultCapacity is the number of markers retained by a tracker.
const DefaultCapacity = 64

// Marker records one completed orbit.
type Marker struct {
	Entity   ecs.Entity
	Name     string
	Time     float64
	Position dynamo.Vec3
	Number   int
	Period   float64
}

// Markers is a fixed-capacity ring buffer. Once full, each Push evicts the
// oldest marker and reports it.
type Markers struct {
	buf     []Marker
	head    int
	size    int
	evicted int
}

func NewMarkers(capacity int) *Markers {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Markers{buf: make([]Marker, capacity)}
}

// Push appends m. When the buffer was full, the overwritten marker is
// returned with ok set.
func (r *Markers) Push(m Marker) (evicted Marker, ok bool) {
	idx := (r.head + r.size) % len(r.buf)
	if r.size == len(r.buf) {
		evicted, ok = r.buf[r.head], true
		r.head = (r.head + 1) % len(r.buf)
		r.evicted++
	} else {
		r.size++
	}
	r.buf[idx] = m
	return evicted, ok
}

func (r *Markers) Len() int { return r.size }
func (r *Markers) Cap() int { return len(r.buf) }

// Evicted returns how many markers have been overwritten so far.
func (r *Markers) Evicted() int { return r.evicted }

// At returns the i-th retained marker, oldest first.
func (r *Markers) At(i int) Marker {
	return r.buf[(r.head+i)%len(r.buf)]
}

// All copies the retained markers, oldest first.
func (r *Markers) All() []Marker {
	out := make([]Marker, r.size)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}

func (r *Markers) Latest() (Marker, bool) {
	if r.size == 0 {
		return Marker{}, false
	}
	return r.At(r.size - 1), true
}

func (r *Markers) Clear() {
	r.head, r.size = 0, 0
}
