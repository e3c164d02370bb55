package texture

import (
	"image"
	"sync"
)

// Cache is a concurrency-safe content-keyed texture cache. Each key carries
// a monotonic generation counter: loads started before an Invalidate finish
// against a stale generation and are dropped, so a photo deleted mid-flight
// never resurrects its texture.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA
	gen   map[string]uint64
}

func NewCache() *Cache {
	return &Cache{
		items: map[string]*image.NRGBA{},
		gen:   map[string]uint64{},
	}
}

// Get returns the cached texture for key, if present.
func (c *Cache) Get(key string) (*image.NRGBA, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.items[key]
	return img, ok
}

// begin records the start of an async load and returns the generation the
// load must still match on completion.
func (c *Cache) begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[key]
}

// complete stores img for key unless the key was invalidated after the load
// began. The previous texture stays visible until the replacement lands; a
// stale completion changes nothing.
func (c *Cache) complete(key string, gen uint64, img *image.NRGBA) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen[key] != gen {
		return false
	}
	c.items[key] = img
	return true
}

// Invalidate drops key and bumps its generation so in-flight loads for the
// old content are abandoned.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	c.gen[key]++
}

// Len reports the number of cached textures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
