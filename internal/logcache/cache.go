package logcache

import "sync"

// Cache holds the current collection of one session. Each fetch merges into
// whatever the collection is when it completes, so overlapping fetches
// converge per key on the one merged last.
type Cache[T Keyed] struct {
	mu  sync.RWMutex
	cur Collection[T]
}

// Snapshot returns the current collection.
func (c *Cache[T]) Snapshot() Collection[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cur
}

// Merge folds a fetched batch into the cache and returns the result.
func (c *Cache[T]) Merge(incoming []T) Collection[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = MergeIn(c.cur, incoming)
	return c.cur
}

// Edit applies an optimistic local edit. It reports whether a record matched.
func (c *Cache[T]) Edit(updated T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cur.Get(updated.LogKey()); !ok {
		return false
	}
	c.cur = ApplyLocalEdit(c.cur, updated)
	return true
}
