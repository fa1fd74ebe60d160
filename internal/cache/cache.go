package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local TTL cache for rendered reports. Entries are
// stored under the generation they were built from; Invalidate starts a new
// generation, so a Set that raced with it is dropped.
type Memory struct {
	mu  sync.RWMutex
	ttl time.Duration
	gen int64
	m   map[string]entry
	now func() time.Time
}

type entry struct {
	val []byte
	exp time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &Memory{
		ttl: ttl,
		m:   make(map[string]entry),
		now: time.Now,
	}
}

// Generation returns the token callers pass to Get and Set. Take it before
// loading the data the cached value is built from.
func (c *Memory) Generation(context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen, nil
}

func (c *Memory) Get(_ context.Context, key string, gen int64) ([]byte, bool) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.m[key]
	current := c.gen
	c.mu.RUnlock()
	if !ok || gen != current {
		return nil, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		// re-check: a concurrent Set may have refreshed the entry
		if cur, ok := c.m[key]; ok && now.After(cur.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.val, true
}

// Set stores val unless the cache was invalidated after gen was taken.
func (c *Memory) Set(_ context.Context, key string, gen int64, val []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.m[key] = entry{val: val, exp: c.now().Add(c.ttl)}
}

// Invalidate drops every entry and starts a new generation.
func (c *Memory) Invalidate(context.Context) error {
	c.mu.Lock()
	c.gen++
	c.m = make(map[string]entry)
	c.mu.Unlock()
	return nil
}

func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
