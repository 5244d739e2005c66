package strec

import (
	"context"
	"fmt"
	"sync"

	"github.com/quakemetrics/gmpe-select/internal/domain"
	"github.com/quakemetrics/gmpe-select/internal/observability"
)

// CachedClassifier wraps a TectonicClassifier with an in-memory LRU cache.
// Classifications are a pure function of the origin's location, depth,
// magnitude, and mechanism, so repeated lookups for updated versions of the
// same event hit the cache.
type CachedClassifier struct {
	inner   domain.TectonicClassifier
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedClassifier creates a cache decorator around a classifier.
func NewCachedClassifier(inner domain.TectonicClassifier, maxEntries int, metrics *observability.Metrics) *CachedClassifier {
	return &CachedClassifier{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedClassifier) Classify(ctx context.Context, origin domain.Origin) (domain.Classification, error) {
	key := cacheKey(origin)
	if cls, ok := c.cache.get(key); ok {
		c.metrics.ClassifyCache.WithLabelValues("hit").Inc()
		return cls, nil
	}
	c.metrics.ClassifyCache.WithLabelValues("miss").Inc()

	cls, err := c.inner.Classify(ctx, origin)
	if err != nil {
		return cls, err
	}
	c.cache.put(key, cls)
	return cls, nil
}

// cacheKey rounds location to ~10m and depth/magnitude to two decimals,
// matching the precision at which classifications can actually differ.
func cacheKey(origin domain.Origin) string {
	key := fmt.Sprintf("%.4f|%.4f|%.2f|%.2f", origin.Lat, origin.Lon, origin.Depth, origin.Magnitude)
	if m := origin.Mechanism; m != nil {
		key += fmt.Sprintf("|%.1f/%.1f/%.1f", m.NP1.Strike, m.NP1.Dip, m.NP1.Rake)
	}
	return key
}

// lruCache is a simple thread-safe LRU cache for Classifications.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.Classification
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.Classification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Classification{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.Classification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
