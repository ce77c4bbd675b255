// ABOUTME: In-memory result cache with TTL expiration and request coalescing
// ABOUTME: sync.Map storage; singleflight guarantees one computation per key

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	data      interface{}
	expiresAt time.Time
}

type Cache struct {
	store sync.Map
	group singleflight.Group
	ttl   time.Duration
}

func New(ttl time.Duration) *Cache {
	c := &Cache{
		ttl: ttl,
	}
	go c.startCleanup()
	return c
}

// Key derives a stable cache key from one analysis input.
func Key(code, context string, requirements []string) string {
	h := sha256.New()
	h.Write([]byte(code))
	h.Write([]byte{0})
	h.Write([]byte(context))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(requirements, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) Get(key string) (interface{}, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return nil, false
	}

	e := val.(entry)
	if time.Now().After(e.expiresAt) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return nil, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache) Set(key string, value interface{}) {
	e := entry{
		data:      value,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.store.Store(key, e)
	slog.Debug("Cache set", "key", key, "ttl", c.ttl)
}

// GetOrCompute returns the cached value for key, or runs compute and
// caches its result. Concurrent callers for the same key share one
// in-flight computation; later callers wait for that result instead of
// recomputing. Failed computations are not cached.
func (c *Cache) GetOrCompute(key string, compute func() (interface{}, error)) (interface{}, error) {
	if val, ok := c.Get(key); ok {
		return val, nil
	}

	val, err, shared := c.group.Do(key, func() (interface{}, error) {
		// Another caller may have populated the entry while we queued.
		if val, ok := c.Get(key); ok {
			return val, nil
		}
		result, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(key, result)
		return result, nil
	})
	if shared {
		slog.Debug("Cache computation shared", "key", key)
	}
	return val, err
}

func (c *Cache) Clear(key string) {
	c.store.Delete(key)
}

func (c *Cache) startCleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.store.Range(func(key, val interface{}) bool {
			e := val.(entry)
			if now.After(e.expiresAt) {
				c.store.Delete(key)
			}
			return true
		})
	}
}
