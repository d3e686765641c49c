package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// CacheOption applies a configuration option to the CachedStore.
type CacheOption func(*CachedStore)

// WithCacheSize bounds the number of cached collectors.
func WithCacheSize(size int) CacheOption {
	return func(c *CachedStore) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithCacheTTL sets how long a cached state stays fresh.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *CachedStore) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}
