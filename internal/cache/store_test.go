package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// countingFetch returns a Fetch that records how many times it ran.
func countingFetch(payload string, calls *int) Fetch {
	return func(ctx context.Context) ([]byte, error) {
		*calls++
		return []byte(payload), nil
	}
}

func TestGetOrFetchRunsFetcherOncePerTTLWindow(t *testing.T) {
	s := New(newTestRedis(t), zerolog.Nop())
	ctx := context.Background()

	calls := 0
	fetch := countingFetch(`{"v":1}`, &calls)

	data, err := s.GetOrFetch(ctx, "classes:list", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(data))
	assert.Equal(t, 1, calls)

	// Fresh entry: the fetcher must not run again.
	data, err = s.GetOrFetch(ctx, "classes:list", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(data))
	assert.Equal(t, 1, calls)
}

func TestGetOrFetchRefetchesAfterExpiry(t *testing.T) {
	s := New(newTestRedis(t), zerolog.Nop())
	ctx := context.Background()

	calls := 0
	fetch := countingFetch("x", &calls)

	_, err := s.GetOrFetch(ctx, "k", 30*time.Millisecond, fetch)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	time.Sleep(50 * time.Millisecond)

	_, err = s.GetOrFetch(ctx, "k", 30*time.Millisecond, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrFetchPromotesFromRedisTier(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	calls := 0
	first := New(rdb, zerolog.Nop())
	_, err := first.GetOrFetch(ctx, "events:list", time.Minute, countingFetch("ev", &calls))
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	// A second store with a cold memory tier must be served from
	// Redis without running the fetcher.
	second := New(rdb, zerolog.Nop())
	data, err := second.GetOrFetch(ctx, "events:list", time.Minute, countingFetch("ev", &calls))
	require.NoError(t, err)
	assert.Equal(t, "ev", string(data))
	assert.Equal(t, 1, calls)
}

func TestGetOrFetchPropagatesFetchError(t *testing.T) {
	s := New(newTestRedis(t), zerolog.Nop())

	boom := errors.New("source down")
	_, err := s.GetOrFetch(context.Background(), "k", time.Minute, func(ctx context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	// A failed fetch must not poison the cache.
	calls := 0
	data, err := s.GetOrFetch(context.Background(), "k", time.Minute, countingFetch("ok", &calls))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, 1, calls)
}

func TestRefreshOverwritesFreshEntry(t *testing.T) {
	s := New(newTestRedis(t), zerolog.Nop())
	ctx := context.Background()

	calls := 0
	_, err := s.GetOrFetch(ctx, "k", time.Minute, countingFetch("old", &calls))
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	data, err := s.Refresh(ctx, "k", time.Minute, countingFetch("new", &calls))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.Equal(t, 2, calls)

	// Subsequent reads see the refreshed payload.
	data, err = s.GetOrFetch(ctx, "k", time.Minute, countingFetch("stale", &calls))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.Equal(t, 2, calls)
}

func TestInvalidateDropsSingleKey(t *testing.T) {
	rdb := newTestRedis(t)
	s := New(rdb, zerolog.Nop())
	ctx := context.Background()

	calls := 0
	_, err := s.GetOrFetch(ctx, "packs:list", time.Minute, countingFetch("p", &calls))
	require.NoError(t, err)

	s.Invalidate(ctx, "packs:list")

	n, err := rdb.Exists(ctx, keyPrefix+"packs:list").Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.GetOrFetch(ctx, "packs:list", time.Minute, countingFetch("p", &calls))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestInvalidateByPatternDropsFamilyInBothTiers(t *testing.T) {
	rdb := newTestRedis(t)
	s := New(rdb, zerolog.Nop())
	ctx := context.Background()

	classCalls, eventCalls := 0, 0
	_, err := s.GetOrFetch(ctx, "classes:list", time.Minute, countingFetch("cl", &classCalls))
	require.NoError(t, err)
	_, err = s.GetOrFetch(ctx, "classes:class_1", time.Minute, countingFetch("cl", &classCalls))
	require.NoError(t, err)
	_, err = s.GetOrFetch(ctx, "events:list", time.Minute, countingFetch("ev", &eventCalls))
	require.NoError(t, err)

	s.InvalidateByPattern(ctx, "classes")

	// Both class keys are gone from Redis, the event key survives.
	n, err := rdb.Exists(ctx, keyPrefix+"classes:list", keyPrefix+"classes:class_1").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = rdb.Exists(ctx, keyPrefix+"events:list").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// Class reads refetch, event reads stay served from memory.
	_, err = s.GetOrFetch(ctx, "classes:list", time.Minute, countingFetch("cl", &classCalls))
	require.NoError(t, err)
	_, err = s.GetOrFetch(ctx, "events:list", time.Minute, countingFetch("ev", &eventCalls))
	require.NoError(t, err)
	assert.Equal(t, 3, classCalls)
	assert.Equal(t, 1, eventCalls)
}

func TestStoreWorksWithoutRedis(t *testing.T) {
	s := New(nil, zerolog.Nop())
	ctx := context.Background()

	calls := 0
	data, err := s.GetOrFetch(ctx, "k", time.Minute, countingFetch("mem", &calls))
	require.NoError(t, err)
	assert.Equal(t, "mem", string(data))

	_, err = s.GetOrFetch(ctx, "k", time.Minute, countingFetch("mem", &calls))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	s.InvalidateByPattern(ctx, "k")
	_, err = s.GetOrFetch(ctx, "k", time.Minute, countingFetch("mem", &calls))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
