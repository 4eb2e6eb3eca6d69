package contextual

import (
	"sync"

	"github.com/rs/xid"
)

type subscription[T any] struct {
	id       string
	notify   func(value T, dispose DisposeFunc)
	multiple bool
	disposed bool
}

// Container holds the current value for a key together with the callbacks
// subscribed to it. Every callback is invoked synchronously with the
// current value the moment it subscribes. When the value changes, only
// multiple-delivery subscribers hear about it again; single-shot
// subscribers are dropped right after their first delivery.
type Container[T any] struct {
	mu    sync.Mutex
	value T
	subs  []*subscription[T]
}

// NewContainer creates a container seeded with an initial value.
func NewContainer[T any](value T) *Container[T] {
	return &Container[T]{value: value}
}

// Value returns the current value.
func (c *Container[T]) Value() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// SetValue replaces the value and re-notifies every live
// multiple-delivery subscriber.
func (c *Container[T]) SetValue(value T) {
	c.mu.Lock()
	c.value = value
	snapshot := make([]*subscription[T], 0, len(c.subs))
	for _, sub := range c.subs {
		if !sub.disposed {
			snapshot = append(snapshot, sub)
		}
	}
	c.mu.Unlock()

	for _, sub := range snapshot {
		sub.notify(value, c.disposeFunc(sub))
	}
}

// Subscribe registers a callback and delivers the current value to it
// immediately. A multiple-delivery subscription stays registered until
// its DisposeFunc is called; a single-shot one receives exactly this one
// delivery and is never retained. The returned DisposeFunc is nil for
// single-shot subscriptions.
func (c *Container[T]) Subscribe(notify func(value T, dispose DisposeFunc), multiple bool) DisposeFunc {
	c.mu.Lock()
	value := c.value
	var dispose DisposeFunc
	if multiple {
		sub := &subscription[T]{id: xid.New().String(), notify: notify, multiple: true}
		c.subs = append(c.subs, sub)
		dispose = c.disposeFunc(sub)
	}
	c.mu.Unlock()

	notify(value, dispose)
	return dispose
}

// Clear drops every subscription without notifying anyone. It is used by
// providers when their host leaves the tree.
func (c *Container[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sub := range c.subs {
		sub.disposed = true
	}
	c.subs = nil
}

// SubscriberCount reports the number of live subscriptions.
func (c *Container[T]) SubscriberCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, sub := range c.subs {
		if !sub.disposed {
			count++
		}
	}
	return count
}

func (c *Container[T]) disposeFunc(sub *subscription[T]) DisposeFunc {
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub.disposed {
			return
		}
		sub.disposed = true
		for i, s := range c.subs {
			if s.id == sub.id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				break
			}
		}
	}
}
