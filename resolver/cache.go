package resolver

import (
	"container/list"
	"fmt"
	"sort"
	"sync"

	"github.com/xdarkicex/zephyr/module"
)

// memberKey is one (name, version, path, mtime) tuple used to build a
// resolution's cache key.
type memberKey struct {
	name, version, path string
	mtimeUnixNano       int64
}

// Key builds the sorted-tuple cache key for a module set. Sorting by name
// makes the key independent of input ordering.
func Key(modules []*module.Module, mtimes map[string]int64) string {
	keys := make([]memberKey, len(modules))
	for i, m := range modules {
		keys[i] = memberKey{name: m.Name, version: m.Version, path: m.Path, mtimeUnixNano: mtimes[m.Name]}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].name < keys[j].name })

	s := ""
	for _, k := range keys {
		s += fmt.Sprintf("%s@%s@%s@%d;", k.name, k.version, k.path, k.mtimeUnixNano)
	}
	return s
}

// Cache is an LRU cache of resolved load orders, bounded by capacity and
// invalidated whenever any member module's mtime changes the resolution
// key. The resolver's hot path is single-threaded per the core's
// concurrency model, but the mutex guards against callers sharing one
// Cache across goroutines by mistake.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type cacheEntry struct {
	key   string
	order []*module.Module
}

// NewCache returns a Cache bounded to capacity entries.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 32
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns the cached order for key, if present, marking it
// most-recently-used.
func (c *Cache) Get(key string) ([]*module.Module, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).order, true
}

// Put stores order under key, evicting the least-recently-used entry if
// the cache is at capacity.
func (c *Cache) Put(key string, order []*module.Module) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).order = order
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&cacheEntry{key: key, order: order})
	c.items[key] = el

	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
