package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

type reportEntry struct {
	payload   []byte
	expiresAt time.Time
}

// InMemoryReportCache is the single-instance fallback when Redis is not configured
type InMemoryReportCache struct {
	mu          sync.Mutex
	ttl         time.Duration
	entries     map[uuid.UUID]map[string]reportEntry
	generations map[uuid.UUID]int64
	now         func() time.Time
}

// NewInMemoryReportCache creates an empty in-memory report cache
func NewInMemoryReportCache(ttl time.Duration) *InMemoryReportCache {
	return &InMemoryReportCache{
		ttl:         ttl,
		entries:     make(map[uuid.UUID]map[string]reportEntry),
		generations: make(map[uuid.UUID]int64),
		now:         time.Now,
	}
}

func (c *InMemoryReportCache) Get(_ context.Context, churchID uuid.UUID, key string, dst any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[churchID][key]
	if ok && c.now().After(e.expiresAt) {
		delete(c.entries[churchID], key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.payload, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *InMemoryReportCache) Generation(_ context.Context, churchID uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[churchID], nil
}

// Set drops values computed under a generation that was since invalidated
func (c *InMemoryReportCache) Set(_ context.Context, churchID uuid.UUID, generation int64, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generations[churchID] {
		return nil
	}
	if c.entries[churchID] == nil {
		c.entries[churchID] = make(map[string]reportEntry)
	}
	c.entries[churchID][key] = reportEntry{payload: payload, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *InMemoryReportCache) Invalidate(_ context.Context, churchID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, churchID)
	c.generations[churchID]++
	return nil
}

var _ ReportCache = (*InMemoryReportCache)(nil)
