package membercache

import (
	"sync"
	"time"

	"acem-epargne/internal/adapters/persistence/models"
)

// Cache is a read-through snapshot cache for the member list. The list is
// small and read on almost every request, so one TTL-bound snapshot is
// enough; any write path invalidates it.
type Cache struct {
	mu      sync.RWMutex
	members []models.Member
	loaded  time.Time
	ttl     time.Duration
}

// New creates a member cache with the given snapshot lifetime
func New(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl}
}

// Get returns the cached snapshot, or nil when the cache is cold or stale
func (c *Cache) Get() []models.Member {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.members == nil || time.Since(c.loaded) > c.ttl {
		return nil
	}
	snapshot := make([]models.Member, len(c.members))
	copy(snapshot, c.members)
	return snapshot
}

// Set stores a fresh snapshot
func (c *Cache) Set(members []models.Member) {
	snapshot := make([]models.Member, len(members))
	copy(snapshot, members)
	c.mu.Lock()
	c.members = snapshot
	c.loaded = time.Now()
	c.mu.Unlock()
}

// Invalidate drops the snapshot; the next Get misses
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.members = nil
	c.mu.Unlock()
}
