// Package cache implements a two-tier read cache: an in-process map
// backed by Redis. Entries are looked up memory-first, then Redis,
// then fetched from the source and written to both tiers. There is
// no de-duplication of concurrent fetches for the same key; two
// callers racing on a miss both run the fetcher, which is redundant
// work but not a correctness problem for the data cached here.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pulsefit/studio-booking/internal/metrics"
)

const keyPrefix = "cache:"

// Entry is one cached record. Data holds the marshaled payload;
// ExpiresAt is nil for entries cached without a TTL.
type Entry struct {
	Data      []byte     `json:"data"`
	WrittenAt time.Time  `json:"writtenAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (e Entry) fresh(now time.Time) bool {
	return e.ExpiresAt == nil || now.Before(*e.ExpiresAt)
}

// Fetch loads the payload on a cache miss.
type Fetch func(ctx context.Context) ([]byte, error)

// Store is the cache service. It is constructed once at startup and
// shared; Clear is its teardown. A nil Redis client degrades the
// store to its in-process tier only.
type Store struct {
	mu  sync.RWMutex
	mem map[string]Entry
	rdb *redis.Client
	log zerolog.Logger
}

// New returns an empty Store. rdb may be nil.
func New(rdb *redis.Client, log zerolog.Logger) *Store {
	return &Store{
		mem: make(map[string]Entry),
		rdb: rdb,
		log: log.With().Str("component", "cache").Logger(),
	}
}

// GetOrFetch returns the cached payload for key when a fresh entry
// exists in either tier, otherwise runs fetch and stores the result
// in both tiers. ttl <= 0 caches without expiry.
func (s *Store) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch Fetch) ([]byte, error) {
	now := time.Now().UTC()

	s.mu.RLock()
	e, ok := s.mem[key]
	s.mu.RUnlock()
	if ok && e.fresh(now) {
		metrics.IncCacheHit("memory")
		return e.Data, nil
	}

	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
		if err == nil {
			var stored Entry
			if jsonErr := json.Unmarshal(raw, &stored); jsonErr == nil && stored.fresh(now) {
				metrics.IncCacheHit("redis")
				// Promote to the memory tier for subsequent reads.
				s.mu.Lock()
				s.mem[key] = stored
				s.mu.Unlock()
				return stored.Data, nil
			}
		} else if err != redis.Nil {
			s.log.Warn().Err(err).Str("key", key).Msg("redis read failed")
		}
	}

	metrics.IncCacheMiss()
	return s.fetchAndStore(ctx, key, ttl, fetch)
}

// Refresh runs fetch regardless of freshness and overwrites the
// stored entry in both tiers.
func (s *Store) Refresh(ctx context.Context, key string, ttl time.Duration, fetch Fetch) ([]byte, error) {
	return s.fetchAndStore(ctx, key, ttl, fetch)
}

func (s *Store) fetchAndStore(ctx context.Context, key string, ttl time.Duration, fetch Fetch) ([]byte, error) {
	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	e := Entry{Data: data, WrittenAt: now}
	if ttl > 0 {
		exp := now.Add(ttl)
		e.ExpiresAt = &exp
	}

	s.mu.Lock()
	s.mem[key] = e
	s.mu.Unlock()

	if s.rdb != nil {
		raw, err := json.Marshal(e)
		if err == nil {
			if ttl > 0 {
				err = s.rdb.Set(ctx, keyPrefix+key, raw, ttl).Err()
			} else {
				err = s.rdb.Set(ctx, keyPrefix+key, raw, 0).Err()
			}
		}
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("redis write failed")
		}
	}
	return data, nil
}

// Invalidate removes one key from both tiers without fetching.
func (s *Store) Invalidate(ctx context.Context, key string) {
	s.mu.Lock()
	delete(s.mem, key)
	s.mu.Unlock()

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("redis delete failed")
		}
	}
}

// InvalidateByPattern removes every key containing substr from both
// tiers. Mutation handlers use this to drop all cached views of an
// entity family (e.g. "classes") in one call.
func (s *Store) InvalidateByPattern(ctx context.Context, substr string) {
	s.mu.Lock()
	for k := range s.mem {
		if strings.Contains(k, substr) {
			delete(s.mem, k)
		}
	}
	s.mu.Unlock()

	if s.rdb == nil {
		return
	}
	var cursor uint64
	pattern := keyPrefix + "*" + substr + "*"
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			s.log.Warn().Err(err).Str("pattern", substr).Msg("redis scan failed")
			return
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				s.log.Warn().Err(err).Str("pattern", substr).Msg("redis delete failed")
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// Clear empties the memory tier and drops every cache-owned key in
// Redis. Used on shutdown and in tests.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.mem = make(map[string]Entry)
	s.mu.Unlock()

	if s.rdb == nil {
		return
	}
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			_ = s.rdb.Del(ctx, keys...).Err()
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
