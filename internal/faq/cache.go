package faq

import (
	"context"
	"sync"
	"time"

	"github.com/wellfit/gym-ai-concierge/pkg/logging"
)

// Fetcher loads the full FAQ dataset from its source of truth.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Entry, error)
}

// Cache holds the FAQ dataset in process with a fixed expiry. The dataset is
// replaced wholesale on refresh; lookups never mutate it. A failed refresh
// degrades to the last good snapshot rather than erroring.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	logger  *logging.Logger

	mu        sync.RWMutex
	entries   []Entry
	fetchedAt time.Time

	now func() time.Time
}

// NewCache creates a FAQ cache with an explicit TTL.
func NewCache(fetcher Fetcher, ttl time.Duration, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Entries returns the current FAQ snapshot, refreshing lazily when the cache
// is empty or expired. A dead FAQ source with an empty cache yields an empty
// slice, which callers treat as "no match".
func (c *Cache) Entries(ctx context.Context) []Entry {
	c.mu.RLock()
	fresh := len(c.entries) > 0 && c.now().Sub(c.fetchedAt) < c.ttl
	entries := c.entries
	c.mu.RUnlock()

	if fresh {
		return entries
	}
	return c.refresh(ctx)
}

// Refresh forces a fetch regardless of expiry.
func (c *Cache) Refresh(ctx context.Context) []Entry {
	return c.refresh(ctx)
}

func (c *Cache) refresh(ctx context.Context) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if len(c.entries) > 0 && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.entries
	}

	fetched, err := c.fetcher.Fetch(ctx)
	if err != nil {
		c.logger.Error("faq refresh failed, serving stale cache", "error", err, "stale_entries", len(c.entries))
		return c.entries
	}

	c.entries = fetched
	c.fetchedAt = c.now()
	c.logger.Info("faq cache refreshed", "entries", len(fetched))
	return c.entries
}
