package ecs

import (
	"fmt"
	"math/bits"

	"go.uber.org/zap"
)

// World owns the entity table and every component column. It is not safe for
// concurrent use.
type World struct {
	capacity int
	next     Entity
	alive    []bool
	live     int
	columns  [MaxKinds]*column
	log      *zap.Logger
}

// NewWorld creates a World holding up to MaxEntities entities.
func NewWorld(log *zap.Logger) *World {
	return NewWorldSize(MaxEntities, log)
}

// NewWorldSize creates a World with a custom entity capacity.
func NewWorldSize(capacity int, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	if capacity < 1 {
		capacity = 1
	}
	return &World{
		capacity: capacity,
		next:     1,
		alive:    make([]bool, capacity+1),
		log:      log,
	}
}

func (w *World) Capacity() int { return w.capacity }

// Count returns the number of live entities.
func (w *World) Count() int { return w.live }

// Issued returns the number of ids handed out so far, including destroyed ones.
func (w *World) Issued() int { return int(w.next) - 1 }

// CreateEntity allocates the next id. Destroyed ids are never reused, so the
// table is exhausted after Capacity lifetime creations.
func (w *World) CreateEntity() (Entity, error) {
	if int(w.next) > w.capacity {
		w.log.Warn("entity table exhausted", zap.Int("capacity", w.capacity))
		return Invalid, ErrEntityLimit
	}
	e := w.next
	w.next++
	w.alive[e] = true
	w.live++
	return e, nil
}

// Alive reports whether e was created and not destroyed.
func (w *World) Alive(e Entity) bool {
	return e != Invalid && e < w.next && w.alive[e]
}

// DestroyEntity clears every presence flag of e and marks it dead. Column
// storage is not compacted.
func (w *World) DestroyEntity(e Entity) {
	if !w.Alive(e) {
		return
	}
	for _, c := range w.columns {
		if c != nil {
			c.unset(e)
		}
	}
	w.alive[e] = false
	w.live--
}

// AddComponent copies data into e's slot of the kind's column and returns a
// view aliasing the stored bytes. The first write to a kind fixes its width.
func (w *World) AddComponent(e Entity, kind Kind, data []byte) ([]byte, error) {
	if !w.Alive(e) {
		w.log.Warn("add component to invalid entity", zap.Uint32("entity", uint32(e)), zap.Int("kind", int(kind)))
		return nil, ErrInvalidEntity
	}
	if int(kind) >= MaxKinds {
		w.log.Warn("add component of unknown kind", zap.Uint32("entity", uint32(e)), zap.Int("kind", int(kind)))
		return nil, ErrUnknownKind
	}
	if len(data) == 0 {
		w.log.Warn("add zero-width component", zap.Uint32("entity", uint32(e)), zap.Int("kind", int(kind)))
		return nil, fmt.Errorf("%w: zero width", ErrWidthMismatch)
	}

	c := w.columns[kind]
	if c == nil {
		c = newColumn(len(data), w.capacity)
		w.columns[kind] = c
		w.log.Debug("component kind established", zap.Int("kind", int(kind)), zap.Int("width", len(data)))
	}
	if c.width != len(data) {
		w.log.Warn("component width mismatch",
			zap.Uint32("entity", uint32(e)),
			zap.Int("kind", int(kind)),
			zap.Int("width", c.width),
			zap.Int("got", len(data)))
		return nil, fmt.Errorf("%w: kind %d is %d bytes, got %d", ErrWidthMismatch, kind, c.width, len(data))
	}
	return c.set(e, data), nil
}

// GetComponent returns a view of e's component bytes, or nil when absent.
func (w *World) GetComponent(e Entity, kind Kind) []byte {
	c := w.column(kind)
	if c == nil || !w.Alive(e) || !c.present[e] {
		return nil
	}
	return c.slot(e)
}

// RemoveComponent clears e's presence flag for kind.
func (w *World) RemoveComponent(e Entity, kind Kind) {
	c := w.column(kind)
	if c == nil || e == Invalid || int(e) > w.capacity {
		return
	}
	c.unset(e)
}

// Has reports whether e carries kind.
func (w *World) Has(e Entity, kind Kind) bool {
	c := w.column(kind)
	return c != nil && w.Alive(e) && c.present[e]
}

// HasAll reports whether e is alive and carries every kind in mask.
func (w *World) HasAll(e Entity, mask Mask) bool {
	if !w.Alive(e) {
		return false
	}
	for v := mask; v != 0; {
		k := lowestKind(v)
		v = v.Without(k)
		c := w.columns[k]
		if c == nil || !c.present[e] {
			return false
		}
	}
	return true
}

// Width returns the established byte width of kind.
func (w *World) Width(kind Kind) (int, bool) {
	c := w.column(kind)
	if c == nil {
		return 0, false
	}
	return c.width, true
}

// KindCount returns how many entities currently carry kind.
func (w *World) KindCount(kind Kind) int {
	c := w.column(kind)
	if c == nil {
		return 0
	}
	return c.count
}

func (w *World) column(kind Kind) *column {
	if int(kind) >= MaxKinds {
		return nil
	}
	return w.columns[kind]
}

func lowestKind(m Mask) Kind {
	return Kind(bits.TrailingZeros64(uint64(m)))
}
