package ingest

import (
	"container/list"
	"fmt"
	"sync"
	"sync/atomic"
)

// VariantKey identifies one rendered variant of an asset: the output kind
// (renderer protocol), the target cell size and the view transform it was
// composed with.
type VariantKey struct {
	Asset     uint64
	Kind      string
	Width     int
	Height    int
	Transform string
}

// String returns a human-readable key for debugging.
func (k VariantKey) String() string {
	return fmt.Sprintf("%d:%s:%dx%d:%s", k.Asset, k.Kind, k.Width, k.Height, k.Transform)
}

// CacheStats reports hit/miss counts for observability.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
	SizeBytes int64
}

type cacheEntry struct {
	key       VariantKey
	rendered  string
	sizeBytes int64
}

// VariantCache is a thread-safe, byte-bounded LRU of rendered variants.
type VariantCache struct {
	mu        sync.RWMutex
	items     map[VariantKey]*list.Element
	order     *list.List // front = most recent
	maxBytes  int64
	usedBytes int64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewVariantCache creates a cache bounded to maxMB megabytes (default 32).
func NewVariantCache(maxMB int) *VariantCache {
	if maxMB <= 0 {
		maxMB = 32
	}
	return &VariantCache{
		items:    make(map[VariantKey]*list.Element),
		order:    list.New(),
		maxBytes: int64(maxMB) * 1024 * 1024,
	}
}

// Get returns the cached variant for key.
func (c *VariantCache) Get(key VariantKey) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return "", false
	}
	c.order.MoveToFront(elem)
	c.hits.Add(1)
	return elem.Value.(*cacheEntry).rendered, true
}

// Put stores a variant, evicting least recently used entries to stay
// within the byte bound.
func (c *VariantCache) Put(key VariantKey, rendered string) {
	size := int64(len(rendered))

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		old := elem.Value.(*cacheEntry)
		c.usedBytes += size - old.sizeBytes
		old.rendered = rendered
		old.sizeBytes = size
		c.order.MoveToFront(elem)
		c.evictLocked()
		return
	}

	for c.usedBytes+size > c.maxBytes && c.order.Len() > 0 {
		c.evictBackLocked()
	}
	elem := c.order.PushFront(&cacheEntry{key: key, rendered: rendered, sizeBytes: size})
	c.items[key] = elem
	c.usedBytes += size
}

// RetainOnly drops every variant not derived from asset. Called when a new
// image replaces the old one.
func (c *VariantCache) RetainOnly(asset uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for e := c.order.Front(); e != nil; {
		next := e.Next()
		entry := e.Value.(*cacheEntry)
		if entry.key.Asset != asset {
			c.removeLocked(e)
		}
		e = next
	}
}

// Invalidate clears all entries.
func (c *VariantCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[VariantKey]*list.Element)
	c.order.Init()
	c.usedBytes = 0
}

// Stats returns current cache statistics.
func (c *VariantCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   c.order.Len(),
		SizeBytes: c.usedBytes,
	}
}

// Caller must hold c.mu.
func (c *VariantCache) evictLocked() {
	for c.usedBytes > c.maxBytes && c.order.Len() > 0 {
		c.evictBackLocked()
	}
}

// Caller must hold c.mu.
func (c *VariantCache) evictBackLocked() {
	if back := c.order.Back(); back != nil {
		c.removeLocked(back)
	}
}

func (c *VariantCache) removeLocked(e *list.Element) {
	entry := c.order.Remove(e).(*cacheEntry)
	delete(c.items, entry.key)
	c.usedBytes -= entry.sizeBytes
	c.evictions.Add(1)
}
