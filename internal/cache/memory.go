package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
)

const defaultMaxEntries = 1000

// MemoryClient is a bounded in-process LRU with per-entry expiry. It suits a
// single API instance; use Redis when several instances share results.
type MemoryClient struct {
	mu    sync.Mutex
	order *list.List // front is most recently used
	items map[string]*list.Element
	max   int
	now   func() time.Time
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewMemoryClient creates an LRU holding at most maxEntries values.
func NewMemoryClient(maxEntries int) *MemoryClient {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &MemoryClient{
		order: list.New(),
		items: make(map[string]*list.Element, maxEntries),
		max:   maxEntries,
		now:   time.Now,
	}
}

// Get returns a copy of the value and marks it recently used. Expired
// entries are dropped on read.
func (c *MemoryClient) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	entry := el.Value.(*memoryEntry)
	if !c.now().Before(entry.expiresAt) {
		c.remove(el)
		return nil, ErrCacheMiss
	}
	c.order.MoveToFront(el)
	return append([]byte(nil), entry.value...), nil
}

// Set stores a copy of value. When full, expired entries go first, then
// the least recently used one.
func (c *MemoryClient) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &memoryEntry{
		key:       key,
		value:     append([]byte(nil), value...),
		expiresAt: c.now().Add(ttl),
	}
	if el, ok := c.items[key]; ok {
		el.Value = entry
		c.order.MoveToFront(el)
		return nil
	}

	if c.order.Len() >= c.max {
		c.purgeExpired()
	}
	for c.order.Len() >= c.max {
		c.remove(c.order.Back())
	}
	c.items[key] = c.order.PushFront(entry)
	return nil
}

func (c *MemoryClient) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
	return nil
}

func (c *MemoryClient) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, el := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.remove(el)
			n++
		}
	}
	return n, nil
}

func (c *MemoryClient) Ping(context.Context) error { return nil }
func (c *MemoryClient) Close() error               { return nil }

// Len returns the number of stored entries, expired or not.
func (c *MemoryClient) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *MemoryClient) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*memoryEntry).key)
}

func (c *MemoryClient) purgeExpired() {
	now := c.now()
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*memoryEntry).expiresAt) {
			c.remove(el)
		}
		el = prev
	}
}
