package adapters

import (
	"context"
	"sync"
	"time"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

// LRUCache is an in-process LRU cache with per-entry TTL. It backs corpus
// search memoization so identical queries within a session do not hit the
// store twice.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*cacheEntry
	head     *cacheEntry
	tail     *cacheEntry
}

type cacheEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
	prev      *cacheEntry
	next      *cacheEntry
}

// NewLRUCache creates an LRU cache holding at most capacity entries.
func NewLRUCache(capacity int) *LRUCache {
	return &LRUCache{
		capacity: capacity,
		entries:  make(map[string]*cacheEntry),
	}
}

// Get returns the cached value for key. Expired entries are evicted on
// access. Get touches the entry, so a full lock is held throughout.
func (c *LRUCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		c.unlink(entry)
		delete(c.entries, key)
		return nil, false
	}

	c.touch(entry)
	return entry.value, true
}

// Set stores value under key with the given TTL, evicting the least
// recently used entry when over capacity.
func (c *LRUCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(time.Duration(ttlSeconds) * time.Second)

	if entry, ok := c.entries[key]; ok {
		entry.value = value
		entry.expiresAt = expiresAt
		c.touch(entry)
		return nil
	}

	entry := &cacheEntry{key: key, value: value, expiresAt: expiresAt}
	c.pushFront(entry)
	c.entries[key] = entry

	if len(c.entries) > c.capacity {
		c.evictOldest()
	}

	return nil
}

// Delete removes key from the cache. Deleting a missing key is a no-op.
func (c *LRUCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}

	c.unlink(entry)
	delete(c.entries, key)
	return nil
}

func (c *LRUCache) touch(entry *cacheEntry) {
	if entry == c.head {
		return
	}
	c.unlink(entry)
	c.pushFront(entry)
}

func (c *LRUCache) pushFront(entry *cacheEntry) {
	entry.next = c.head
	entry.prev = nil

	if c.head != nil {
		c.head.prev = entry
	}
	c.head = entry

	if c.tail == nil {
		c.tail = entry
	}
}

func (c *LRUCache) unlink(entry *cacheEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}

	entry.prev = nil
	entry.next = nil
}

func (c *LRUCache) evictOldest() {
	if c.tail == nil {
		return
	}

	entry := c.tail
	c.unlink(entry)
	delete(c.entries, entry.key)
}

var _ ports.Cache = (*LRUCache)(nil)
