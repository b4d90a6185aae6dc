// Package cache holds a bounded key/value store with insertion-order
// eviction. The forced-win searches memoise their results in it so that a
// long game cannot grow the memo without limit.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"
)

const DefaultCapacity = 1 << 18

// Bounded is a map that holds at most Capacity entries. When full, the
// oldest inserted key is evicted. Overwriting a key does not refresh its
// age.
type Bounded[K comparable, V any] struct {
	sync.Mutex
	objects  map[K]V
	order    []K
	head     int
	capacity int

	evictions uint64
}

func New[K comparable, V any](capacity int) *Bounded[K, V] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Bounded[K, V]{
		objects:  make(map[K]V),
		order:    make([]K, 0, min(capacity, 1<<12)),
		capacity: capacity,
	}
}

func (c *Bounded[K, V]) Get(key K) (V, bool) {
	c.Lock()
	defer c.Unlock()
	v, ok := c.objects[key]
	return v, ok
}

func (c *Bounded[K, V]) Put(key K, val V) {
	c.Lock()
	defer c.Unlock()
	if _, ok := c.objects[key]; ok {
		c.objects[key] = val
		return
	}
	if len(c.order) < c.capacity {
		c.order = append(c.order, key)
	} else {
		// ring buffer: head is the oldest key
		delete(c.objects, c.order[c.head])
		c.order[c.head] = key
		c.head = (c.head + 1) % c.capacity
		c.evictions++
	}
	c.objects[key] = val
}

func (c *Bounded[K, V]) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}

func (c *Bounded[K, V]) Capacity() int {
	return c.capacity
}

func (c *Bounded[K, V]) Evictions() uint64 {
	c.Lock()
	defer c.Unlock()
	return c.evictions
}

// Clear empties the cache, keeping its capacity.
func (c *Bounded[K, V]) Clear() {
	c.Lock()
	defer c.Unlock()
	if len(c.objects) > 0 {
		log.Debug().Int("entries", len(c.objects)).Uint64("evictions", c.evictions).Msg("clearing-cache")
	}
	c.objects = make(map[K]V)
	c.order = c.order[:0]
	c.head = 0
	c.evictions = 0
}
