// Package event is a typed publish/subscribe bus with immediate and deferred
// delivery. A Bus is owned by one scene and is not safe for concurrent use.
package event

import (
	"errors"
	"reflect"

	"go.uber.org/zap"
)

const (
	// MaxListeners bounds the handlers registered for one event type.
	MaxListeners = 16
	// MaxQueued bounds the events waiting for the next Flush.
	MaxQueued = 1024
)

var (
	ErrListenerLimit = errors.New("event: listener limit reached")
	ErrQueueFull     = errors.New("event: deferred queue full")
)

// Bus routes events by their Go type.
type Bus struct {
	handlers map[reflect.Type][]any
	queue    []func()
	spare    []func()
	dropped  int
	log      *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[reflect.Type][]any),
		queue:    make([]func(), 0, 64),
		log:      log,
	}
}

// Subscribe registers fn for events of type T. Handlers run in subscription
// order.
func Subscribe[T any](b *Bus, fn func(T)) error {
	t := reflect.TypeFor[T]()
	hs := b.handlers[t]
	if len(hs) >= MaxListeners {
		b.log.Warn("listener limit reached", zap.Stringer("event", t), zap.Int("limit", MaxListeners))
		return ErrListenerLimit
	}
	b.handlers[t] = append(hs, fn)
	return nil
}

// Publish delivers ev to every handler of T before returning.
func Publish[T any](b *Bus, ev T) {
	for _, h := range b.handlers[reflect.TypeFor[T]()] {
		h.(func(T))(ev)
	}
}

// Defer queues ev for delivery at the next Flush.
func Defer[T any](b *Bus, ev T) error {
	if len(b.queue) >= MaxQueued {
		b.dropped++
		b.log.Warn("deferred queue full", zap.Stringer("event", reflect.TypeFor[T]()), zap.Int("limit", MaxQueued))
		return ErrQueueFull
	}
	b.queue = append(b.queue, func() { Publish(b, ev) })
	return nil
}

// Flush delivers every queued event in the order it was deferred and returns
// how many were delivered. Events deferred by handlers during a Flush wait for
// the next one.
func (b *Bus) Flush() int {
	pending := b.queue
	b.queue = b.spare[:0]
	for i, fn := range pending {
		fn()
		pending[i] = nil
	}
	b.spare = pending[:0]
	return len(pending)
}

// Pending returns the number of queued events.
func (b *Bus) Pending() int { return len(b.queue) }

// Dropped returns how many Defer calls were rejected because the queue was full.
func (b *Bus) Dropped() int { return b.dropped }

// Listeners returns the number of handlers registered for T.
func Listeners[T any](b *Bus) int {
	return len(b.handlers[reflect.TypeFor[T]()])
}
