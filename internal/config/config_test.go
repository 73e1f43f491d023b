package config

import (
	"testing"
	"time"
)

func TestEnvBool(t *testing.T) {
	cases := map[string]bool{"1": true, "yes": true, "ON": true, "0": false, "off": false, "garbage": true}
	for v, want := range cases {
		t.Setenv("TEST_FLAG", v)
		if got := envBool("TEST_FLAG", true); got != want {
			t.Errorf("envBool(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestLoadRateLimitConfig_Normalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Errorf("expected capacity clamped to 1, got %d", cfg.Capacity)
	}
	if cfg.TTL != 10*time.Second {
		t.Errorf("expected TTL raised to 5 refill intervals, got %s", cfg.TTL)
	}
}

func TestLoadBookingRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_PREFIX", "rl")
	t.Setenv("BOOKING_RATE_LIMIT_CAPACITY", "3")

	cfg := LoadBookingRateLimitConfig()
	if cfg.Capacity != 3 {
		t.Errorf("expected capacity 3, got %d", cfg.Capacity)
	}
	if cfg.Prefix != "rl:book" || cfg.KeyStrategy != "user_route" {
		t.Errorf("unexpected key settings: prefix=%q strategy=%q", cfg.Prefix, cfg.KeyStrategy)
	}
}

func TestLoad_MemoryDriverSkipsDatabaseVars(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "-5")

	cfg := Load()
	if cfg.StoreDriver != DriverMemory {
		t.Fatalf("expected memory driver, got %q", cfg.StoreDriver)
	}
	if cfg.Port != "3000" || cfg.BcryptCost != 10 {
		t.Errorf("unexpected defaults: port=%q cost=%d", cfg.Port, cfg.BcryptCost)
	}
	if cfg.AccessTTLMin != 0 {
		t.Errorf("expected negative TTL clamped to 0, got %d", cfg.AccessTTLMin)
	}
}

func TestLoadCacheConfig_Defaults(t *testing.T) {
	cfg := LoadCacheConfig()
	if !cfg.Methods["GET"] || cfg.KeyStrategy != "user_route" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
