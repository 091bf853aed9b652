package faq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	entries []Entry
	err     error
	calls   int
}

func (f *countingFetcher) Fetch(ctx context.Context) ([]Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func TestCacheFetchesOncePerWindow(t *testing.T) {
	fetcher := &countingFetcher{entries: []Entry{{ID: "1", Question: "q", Reply: "r"}}}
	cache := NewCache(fetcher, 5*time.Minute, nil)

	first := cache.Entries(context.Background())
	second := cache.Entries(context.Background())

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, 1, fetcher.calls, "second lookup within TTL must not refetch")
}

func TestCacheRefreshesAfterExpiry(t *testing.T) {
	fetcher := &countingFetcher{entries: []Entry{{ID: "1", Question: "q", Reply: "r"}}}
	cache := NewCache(fetcher, 5*time.Minute, nil)

	now := time.Now()
	cache.now = func() time.Time { return now }

	cache.Entries(context.Background())
	now = now.Add(6 * time.Minute)
	cache.Entries(context.Background())

	assert.Equal(t, 2, fetcher.calls)
}

func TestCacheServesStaleOnFetchFailure(t *testing.T) {
	fetcher := &countingFetcher{entries: []Entry{{ID: "1", Question: "q", Reply: "r"}}}
	cache := NewCache(fetcher, 5*time.Minute, nil)

	now := time.Now()
	cache.now = func() time.Time { return now }

	good := cache.Entries(context.Background())
	require.Len(t, good, 1)

	fetcher.err = errors.New("sheet unreachable")
	now = now.Add(6 * time.Minute)

	stale := cache.Entries(context.Background())
	assert.Equal(t, good, stale, "expected last good snapshot on fetch failure")
}

func TestCacheEmptyOnDeadSourceAndEmptyCache(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("sheet unreachable")}
	cache := NewCache(fetcher, 5*time.Minute, nil)

	entries := cache.Entries(context.Background())
	assert.Empty(t, entries)
}
