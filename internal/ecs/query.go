package ecs

// Mode selects how a Query walks the world.
type Mode uint8

const (
	// Immediate re-tests the mask for each candidate id on every Next call.
	Immediate Mode = iota
	// Cached materializes the matching ids once, in ascending id order.
	Cached
)

// Query iterates entities carrying every kind in a mask.
type Query struct {
	world    *World
	mask     Mask
	mode     Mode
	cursor   Entity
	index    int
	entities []Entity
}

// Query creates a query. A Cached query costs O(N) over the issued id range
// at construction; build it once per tick and reuse it.
func (w *World) Query(mask Mask, mode Mode) *Query {
	q := &Query{world: w, mask: mask, mode: mode}
	if mode == Cached {
		q.materialize()
	}
	q.Reset()
	return q
}

func (q *Query) Mask() Mask { return q.mask }
func (q *Query) Mode() Mode { return q.mode }

// Next returns the next matching entity, or (Invalid, false) at the end.
func (q *Query) Next() (Entity, bool) {
	if q.mode == Cached {
		if q.index >= len(q.entities) {
			return Invalid, false
		}
		e := q.entities[q.index]
		q.index++
		return e, true
	}

	w := q.world
	for q.cursor < w.next {
		e := q.cursor
		q.cursor++
		if w.HasAll(e, q.mask) {
			return e, true
		}
	}
	return Invalid, false
}

// Reset rewinds the query without re-evaluating a cached snapshot.
func (q *Query) Reset() {
	q.cursor = 1
	q.index = 0
}

// Rebuild re-materializes a cached snapshot and rewinds.
func (q *Query) Rebuild() {
	if q.mode == Cached {
		q.materialize()
	}
	q.Reset()
}

// Entities returns the cached snapshot. Immediate queries return nil.
func (q *Query) Entities() []Entity {
	if q.mode != Cached {
		return nil
	}
	return q.entities
}

// Len returns the snapshot size, or -1 for immediate queries.
func (q *Query) Len() int {
	if q.mode != Cached {
		return -1
	}
	return len(q.entities)
}

func (q *Query) materialize() {
	w := q.world
	q.entities = q.entities[:0]
	for e := Entity(1); e < w.next; e++ {
		if w.HasAll(e, q.mask) {
			q.entities = append(q.entities, e)
		}
	}
}
