package config

import "time"

// CacheConfig defines per-entity TTLs for the read cache. The
// values are informative defaults: callers pass a TTL per key and
// these are simply the ones wired into the browse handlers. Mostly
// static entities (classes, trainers, packs) live longer than
// frequently changing ones (events). A zero duration
// anywhere here means "no expiry".
type CacheConfig struct {
	Enabled     bool
	ClassesTTL  time.Duration
	EventsTTL   time.Duration
	PacksTTL    time.Duration
	TrainersTTL time.Duration
}

// LoadCacheConfig reads environment variables to build a
// CacheConfig. Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:     getenv("CACHE_ENABLED", "true") == "true",
		ClassesTTL:  parseDur(getenv("CACHE_CLASSES_TTL", "10m")),
		EventsTTL:   parseDur(getenv("CACHE_EVENTS_TTL", "5m")),
		PacksTTL:    parseDur(getenv("CACHE_PACKS_TTL", "10m")),
		TrainersTTL: parseDur(getenv("CACHE_TRAINERS_TTL", "10m")),
	}
}
