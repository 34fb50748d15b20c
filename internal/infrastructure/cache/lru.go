package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// entry is the bookkeeping for one cached value.
type entry[V any] struct {
	key         string
	value       V
	insertedAt  time.Time
	ttl         time.Duration
	accessCount int
	lastAccess  time.Time
}

// Cache is a TTL + LRU cache. Each entity and query shape gets its own
// instance with independent TTL and capacity. The cache is purely additive:
// a zero or negative TTL disables it entirely and correctness must not
// depend on it.
type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	items   map[string]*list.Element
	order   *list.List // front = most recently used
}

// New creates a cache holding up to maxSize entries for ttl each.
func New[V any](ttl time.Duration, maxSize int) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (c *Cache[V]) disabled() bool {
	return c == nil || c.ttl <= 0 || c.maxSize <= 0
}

// expired uses the expiry rule now-insertedAt > ttl.
func (e *entry[V]) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.insertedAt) > ttl
}

// Get returns the cached value, or a miss on absence or TTL expiry. An
// expired entry is evicted on access.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if c.disabled() {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	ent := el.Value.(*entry[V])
	if ent.expired(time.Now(), c.ttl) {
		c.removeElement(el)
		return zero, false
	}
	ent.accessCount++
	ent.lastAccess = time.Now()
	c.order.MoveToFront(el)
	return ent.value, true
}

// Set inserts or replaces a value. Expired entries are evicted first, then
// the least-recently-used entry if still at capacity.
func (c *Cache[V]) Set(key string, value V) {
	if c.disabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry[V])
		ent.value = value
		ent.insertedAt = now
		ent.accessCount = 1
		ent.lastAccess = now
		c.order.MoveToFront(el)
		return
	}

	c.evictExpired(now)
	for len(c.items) >= c.maxSize {
		if back := c.order.Back(); back != nil {
			c.removeElement(back)
		} else {
			break
		}
	}

	el := c.order.PushFront(&entry[V]{
		key:         key,
		value:       value,
		insertedAt:  now,
		ttl:         c.ttl,
		accessCount: 1,
		lastAccess:  now,
	})
	c.items[key] = el
}

// Invalidate removes one key.
func (c *Cache[V]) Invalidate(key string) {
	if c.disabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// InvalidatePrefix removes every key in a namespace. Writes invalidate
// conservatively: the whole namespace rather than precise dependencies.
func (c *Cache[V]) InvalidatePrefix(prefix string) {
	if c.disabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, el := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.removeElement(el)
		}
	}
}

// Flush drops every entry.
func (c *Cache[V]) Flush() {
	if c.disabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the number of live entries, counting expired but unevicted ones.
func (c *Cache[V]) Len() int {
	if c.disabled() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[V]) evictExpired(now time.Time) {
	for key, el := range c.items {
		if el.Value.(*entry[V]).expired(now, c.ttl) {
			delete(c.items, key)
			c.order.Remove(el)
		}
	}
}

func (c *Cache[V]) removeElement(el *list.Element) {
	ent := el.Value.(*entry[V])
	delete(c.items, ent.key)
	c.order.Remove(el)
}
