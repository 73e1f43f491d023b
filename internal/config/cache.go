package config

import (
    "strings"
    "time"
)

// CacheConfig controls the Redis cache in front of GET /api/bookings/:id.
// Bookings are immutable once committed, so entries only expire by TTL.
// KeyStrategy must keep the user in the key ("user_route" or
// "user_route_query"); the route-only strategies exist for public reads.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_*.  A cache without a Redis client is a
// pass-through regardless of Enabled.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      methodSet(envStr("CACHE_METHODS", "GET")),
        TTL:          envDur("CACHE_TTL", 10*time.Minute),
        KeyStrategy:  strings.ToLower(envStr("CACHE_KEY_STRATEGY", "user_route")),
        Prefix:       envStr("CACHE_PREFIX", "booking-cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 64<<10),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 10 * time.Minute
    }
    return cfg
}

// methodSet turns "get, head" into {"GET": true, "HEAD": true}.
func methodSet(list string) map[string]bool {
    set := make(map[string]bool)
    for _, m := range strings.Split(list, ",") {
        if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
            set[m] = true
        }
    }
    return set
}
