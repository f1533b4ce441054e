// Package rescache memoizes resolution results by the set of queried
// names. Entries never expire, they live until Clear is called. The cache
// keeps its own deep copies, callers may modify what they receive.
package rescache

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gnames/gnuuid"
	"github.com/gnames/gnvern/pkg/ent/vernacular"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Stats describes the usage of a cache.
type Stats struct {
	// Hits is the number of lookups served from the cache.
	Hits int64 `json:"hits"`

	// Misses is the number of lookups that required a computation.
	Misses int64 `json:"misses"`

	// Shared is the number of lookups that waited for a computation
	// started by another caller.
	Shared int64 `json:"shared"`

	// Size is the number of cached results.
	Size int `json:"size"`

	// Generation increments on every Clear.
	Generation uint64 `json:"generation"`
}

// Cache keeps resolution results. It is safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	data  map[uuid.UUID]vernacular.Result
	gen   uint64
	group singleflight.Group

	hits, misses, shared atomic.Int64
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{data: make(map[uuid.UUID]vernacular.Result)}
}

// Key creates a cache key from sorted unique names.
func Key(names []string) string {
	return strings.Join(names, "|")
}

// Get returns a cached result for a key.
func (c *Cache) Get(key string) (vernacular.Result, bool) {
	id := gnuuid.New(key)
	c.mu.RLock()
	res, ok := c.data[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return res.Clone(), true
}

// Clear removes all results and starts a new generation. Computations
// that started before Clear do not save their results.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[uuid.UUID]vernacular.Result)
	c.gen++
}

// Generation returns the number of Clear calls so far.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Do returns a cached result for a key or computes it with fn.
// Concurrent calls with the same key share one computation. Only
// successful results are cached.
func (c *Cache) Do(
	key string,
	fn func() (vernacular.Result, error),
) (vernacular.Result, error) {
	if res, ok := c.Get(key); ok {
		c.hits.Add(1)
		return res, nil
	}

	gen := c.Generation()
	id := gnuuid.New(key)
	flightKey := strconv.FormatUint(gen, 10) + "|" + id.String()

	v, err, shared := c.group.Do(flightKey, func() (any, error) {
		res, err := fn()
		if err != nil {
			return nil, err
		}
		c.putIfGen(id, res, gen)
		return res, nil
	})
	if shared {
		c.shared.Add(1)
	} else {
		c.misses.Add(1)
	}
	if err != nil {
		return nil, err
	}
	return v.(vernacular.Result).Clone(), nil
}

// Stats returns usage statistics.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	size, gen := len(c.data), c.gen
	c.mu.RUnlock()
	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Shared:     c.shared.Load(),
		Size:       size,
		Generation: gen,
	}
}

func (c *Cache) putIfGen(id uuid.UUID, res vernacular.Result, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.data[id] = res.Clone()
}
