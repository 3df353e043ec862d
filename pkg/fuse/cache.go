package fuse

import (
	"container/list"
	"sync"

	"github.com/dshills/bitfuse/pkg/bitap"
)

// Cache is an LRU cache of search results keyed by query.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	query   string
	results []Result
}

// NewCache creates a cache holding at most maxSize queries.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Cache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get returns a copy of the cached results for query, or nil.
func (c *Cache) Get(query string) []Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[query]
	if !ok {
		return nil
	}
	c.lru.MoveToFront(elem)

	entry := elem.Value.(*cacheEntry) //nolint:errcheck // list only contains *cacheEntry
	return copyResults(entry.results)
}

// Set stores a copy of results for query.
func (c *Cache) Set(query string, results []Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[query]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry) //nolint:errcheck // list only contains *cacheEntry
		entry.results = copyResults(results)
		return
	}

	if c.lru.Len() >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			entry := oldest.Value.(*cacheEntry) //nolint:errcheck // list only contains *cacheEntry
			delete(c.items, entry.query)
		}
	}

	c.items[query] = c.lru.PushFront(&cacheEntry{
		query:   query,
		results: copyResults(results),
	})
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

// Len returns the number of cached queries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// copyResults deep-copies results so callers cannot mutate cached ranges.
func copyResults(results []Result) []Result {
	copied := make([]Result, len(results))
	for i, r := range results {
		copied[i] = r
		if r.Matches == nil {
			continue
		}

		copied[i].Matches = make([]Match, len(r.Matches))
		for j, m := range r.Matches {
			m.Indices = append([]bitap.Range(nil), m.Indices...)
			copied[i].Matches[j] = m
		}
	}
	return copied
}
