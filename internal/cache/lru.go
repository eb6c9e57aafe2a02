// Package cache keeps hot assessments close to the API and backs the
// per-location activity counters. The Community tier runs entirely on
// the in-process LRU; the Pro tier layers it over Redis.
package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/opensource-safety/kestrel/internal/domain"
)

// LRUCache is an in-process cache with per-entry TTL and least-recently-
// used eviction. Keys are tenant-prefixed so two societies caching the
// same audit ID never collide. Counters live in a separate map because
// they carry window semantics, not LRU semantics.
type LRUCache struct {
	mu       sync.RWMutex
	capacity int
	index    map[string]*list.Element
	lru      *list.List
	counters map[string]*windowCounter
}

type lruEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

type windowCounter struct {
	count    int64
	windowTo time.Time
}

// NewLRUCache creates a cache holding at most capacity entries.
func NewLRUCache(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = 10000
	}
	return &LRUCache{
		capacity: capacity,
		index:    make(map[string]*list.Element),
		lru:      list.New(),
		counters: make(map[string]*windowCounter),
	}
}

// Get returns the cached value, or nil, nil on a miss. Expired entries
// are evicted on read.
func (c *LRUCache) Get(ctx context.Context, tenantID string, key string) ([]byte, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenantID is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[tenantKey(tenantID, key)]
	if !ok {
		return nil, nil
	}

	entry := elem.Value.(*lruEntry)
	if time.Now().After(entry.expiresAt) {
		c.evict(elem)
		return nil, nil
	}

	c.lru.MoveToFront(elem)
	return entry.value, nil
}

// Set stores a value with the given TTL, evicting the least recently
// used entries when over capacity.
func (c *LRUCache) Set(ctx context.Context, tenantID string, key string, value []byte, ttl time.Duration) error {
	if tenantID == "" {
		return fmt.Errorf("tenantID is required")
	}

	fullKey := tenantKey(tenantID, key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[fullKey]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*lruEntry)
		entry.value = value
		entry.expiresAt = time.Now().Add(ttl)
		return nil
	}

	elem := c.lru.PushFront(&lruEntry{
		key:       fullKey,
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	c.index[fullKey] = elem

	for c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.evict(oldest)
		}
	}

	return nil
}

// Delete removes a value from the cache.
func (c *LRUCache) Delete(ctx context.Context, tenantID string, key string) error {
	if tenantID == "" {
		return fmt.Errorf("tenantID is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[tenantKey(tenantID, key)]; ok {
		c.evict(elem)
	}
	return nil
}

// GetAssessmentByAudit returns the cached assessment for an audit, or
// nil, nil when none is cached. This is the hot path behind
// GET /audits/{id}/assessment.
func (c *LRUCache) GetAssessmentByAudit(ctx context.Context, tenantID string, auditID string) (*domain.Assessment, error) {
	data, err := c.Get(ctx, tenantID, assessmentKey(auditID))
	if err != nil || data == nil {
		return nil, err
	}

	var a domain.Assessment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SetAssessmentByAudit caches an assessment keyed by its audit.
func (c *LRUCache) SetAssessmentByAudit(ctx context.Context, tenantID string, auditID string, assessment *domain.Assessment, ttl time.Duration) error {
	data, err := json.Marshal(assessment)
	if err != nil {
		return err
	}
	return c.Set(ctx, tenantID, assessmentKey(auditID), data, ttl)
}

// IncrementCounter bumps a windowed counter and returns the new count.
// A counter whose window has passed restarts at 1. Used to track audit
// submission activity per location.
func (c *LRUCache) IncrementCounter(ctx context.Context, tenantID string, key string, window time.Duration) (int64, error) {
	if tenantID == "" {
		return 0, fmt.Errorf("tenantID is required")
	}

	fullKey := tenantKey(tenantID, "counter:"+key)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	counter, ok := c.counters[fullKey]
	if !ok || now.After(counter.windowTo) {
		c.counters[fullKey] = &windowCounter{count: 1, windowTo: now.Add(window)}
		return 1, nil
	}

	counter.count++
	return counter.count, nil
}

// Ping reports cache health. The in-process cache is always healthy.
func (c *LRUCache) Ping(ctx context.Context) error {
	return nil
}

// Close drops all cached entries and counters.
func (c *LRUCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[string]*list.Element)
	c.lru = list.New()
	c.counters = make(map[string]*windowCounter)
	return nil
}

// Stats returns current size and capacity.
func (c *LRUCache) Stats() (size int, capacity int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len(), c.capacity
}

func (c *LRUCache) evict(elem *list.Element) {
	c.lru.Remove(elem)
	delete(c.index, elem.Value.(*lruEntry).key)
}

func tenantKey(tenantID, key string) string {
	return tenantID + ":" + key
}

func assessmentKey(auditID string) string {
	return "assessment:" + auditID
}
