package directory

import (
	"sync"
	"time"

	"import-service/internal/clients"
)

// DefaultTTL is how long a directory snapshot stays valid before the next
// resolution forces a refetch
const DefaultTTL = 5 * time.Minute

// Snapshot is a point-in-time view of the three directory collections
type Snapshot struct {
	Categories   []clients.Category    `json:"categories"`
	Suppliers    []clients.Supplier    `json:"suppliers"`
	Supermarkets []clients.Supermarket `json:"supermarkets"`
	FetchedAt    time.Time             `json:"fetchedAt"`
}

// Cache holds the last-fetched directory snapshot. All three collections are
// replaced together; readers never observe categories from one refresh and
// suppliers from another. Owned by a Resolver rather than shared as package
// state, so each import session gets its own cache.
type Cache struct {
	mu           sync.RWMutex
	categories   []clients.Category
	suppliers    []clients.Supplier
	supermarkets []clients.Supermarket
	lastUpdated  time.Time
	ttl          time.Duration

	now func() time.Time
}

// NewCache creates an empty cache with the given expiry window. A zero ttl
// falls back to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl: ttl,
		now: time.Now,
	}
}

// Valid reports whether the cache holds a usable snapshot: populated, all
// three collections present, and younger than the expiry window.
func (c *Cache) Valid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.categories == nil || c.suppliers == nil || c.supermarkets == nil {
		return false
	}
	return c.now().Sub(c.lastUpdated) < c.ttl
}

// Snapshot returns the cached collections. ErrCacheEmpty if the cache was
// never populated (or has been invalidated since).
func (c *Cache) Snapshot() (Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.categories == nil || c.suppliers == nil || c.supermarkets == nil {
		return Snapshot{}, ErrCacheEmpty
	}
	return Snapshot{
		Categories:   c.categories,
		Suppliers:    c.suppliers,
		Supermarkets: c.supermarkets,
		FetchedAt:    c.lastUpdated,
	}, nil
}

// Replace swaps in a freshly fetched set of collections and stamps the cache
// with the current time, as a single step.
func (c *Cache) Replace(categories []clients.Category, suppliers []clients.Supplier, supermarkets []clients.Supermarket) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.categories = categories
	c.suppliers = suppliers
	c.supermarkets = supermarkets
	c.lastUpdated = c.now()
}

// Restore loads a previously fetched snapshot, keeping its original fetch
// time so the expiry window counts from the real fetch.
func (c *Cache) Restore(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.categories = snap.Categories
	c.suppliers = snap.Suppliers
	c.supermarkets = snap.Supermarkets
	c.lastUpdated = snap.FetchedAt
}

// Invalidate clears all three collections and resets the timestamp, forcing
// the next resolution to refetch.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.categories = nil
	c.suppliers = nil
	c.supermarkets = nil
	c.lastUpdated = time.Time{}
}
