package sim

import (
	"sync"

	"github.com/san-kum/orbitsim/internal/scene"
)

// BodyPool recycles body snapshot buffers between ticks.
type BodyPool struct {
	pool sync.Pool
}

func NewBodyPool(capacity int) *BodyPool {
	return &BodyPool{
		pool: sync.Pool{
			New: func() any {
				buf := make([]scene.BodyState, 0, capacity)
				return &buf
			},
		},
	}
}

// Get returns an empty buffer.
func (p *BodyPool) Get() *[]scene.BodyState {
	buf := p.pool.Get().(*[]scene.BodyState)
	*buf = (*buf)[:0]
	return buf
}

func (p *BodyPool) Put(buf *[]scene.BodyState) {
	if buf == nil {
		return
	}
	clear(*buf)
	p.pool.Put(buf)
}

// Snapshot fills a pooled buffer with the scene's bodies.
func (p *BodyPool) Snapshot(s *scene.Scene) *[]scene.BodyState {
	buf := p.Get()
	*buf = s.AppendBodies(*buf)
	return buf
}
