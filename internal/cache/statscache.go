package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oriys/cachesim/internal/eventsink"
)

// StatsCache memoizes eventsink.MissStats lookups behind a Cache, so a
// driver comparing many policies against the same performance log
// (e.g. a "replay" CLI command invoked repeatedly while iterating on a
// report) does not re-scan the CSV file on every call. It is a pure
// read-through layer: callers could always call eventsink.MissStats
// directly and get the same answer, just slower.
type StatsCache struct {
	backend Cache
	ttl     time.Duration
}

// NewStatsCache wraps backend with the given entry TTL.
func NewStatsCache(backend Cache, ttl time.Duration) *StatsCache {
	return &StatsCache{backend: backend, ttl: ttl}
}

// MissStats returns the per-kind hit/miss tally for the performance log
// at path, serving from cache when available.
func (s *StatsCache) MissStats(ctx context.Context, path string) (map[string]eventsink.KindStats, error) {
	key := cacheKey(path)

	if raw, err := s.backend.Get(ctx, key); err == nil {
		var stats map[string]eventsink.KindStats
		if jsonErr := json.Unmarshal(raw, &stats); jsonErr == nil {
			return stats, nil
		}
	}

	stats, err := eventsink.MissStats(path)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(stats); err == nil {
		_ = s.backend.Set(ctx, key, raw, s.ttl)
	}
	return stats, nil
}

// Invalidate drops any cached entry for path, e.g. after the log file
// at path has been rewritten by a new run.
func (s *StatsCache) Invalidate(ctx context.Context, path string) error {
	return s.backend.Delete(ctx, cacheKey(path))
}

func cacheKey(path string) string {
	return fmt.Sprintf("statscache:missstats:%s", path)
}
