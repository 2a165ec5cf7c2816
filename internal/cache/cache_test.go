package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/eightweeks/fujimi-forecast/internal/config"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok, err := m.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := m.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Errorf("Get() = %q, %v, %v", got, ok, err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "short", "1", time.Second)
	_ = m.Set(ctx, "forever", "2", 0)

	now = now.Add(2 * time.Second)
	if _, ok, _ := m.Get(ctx, "short"); ok {
		t.Error("expected expired entry to miss")
	}
	if _, ok, _ := m.Get(ctx, "forever"); !ok {
		t.Error("expected entry without ttl to persist")
	}
	if m.Len() != 1 {
		t.Errorf("expected expired entry to be dropped, have %d", m.Len())
	}
}

func TestMemoryBoundedEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryWithLimit(2)
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "short", "1", time.Second)
	_ = m.Set(ctx, "long", "2", time.Hour)

	now = now.Add(2 * time.Second)
	_ = m.Set(ctx, "fresh", "3", time.Hour)
	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, have %d", m.Len())
	}
	if _, ok, _ := m.Get(ctx, "long"); !ok {
		t.Error("expected the unexpired entry to survive the sweep")
	}

	_ = m.Set(ctx, "long", "2b", 10*time.Minute)
	if m.Len() != 2 {
		t.Fatalf("expected overwrite to keep 2 entries, have %d", m.Len())
	}

	_ = m.Set(ctx, "newest", "4", time.Hour)
	if m.Len() != 2 {
		t.Fatalf("expected the cache to stay at its limit, have %d", m.Len())
	}
	if _, ok, _ := m.Get(ctx, "long"); ok {
		t.Error("expected the entry closest to expiry to be evicted")
	}
	for _, key := range []string{"fresh", "newest"} {
		if _, ok, _ := m.Get(ctx, key); !ok {
			t.Errorf("expected %q to be kept", key)
		}
	}
}

func TestMemoryEvictionPrefersExpiringEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryWithLimit(2)
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "forever", "1", 0)
	_ = m.Set(ctx, "hour", "2", time.Hour)
	now = now.Add(time.Minute)
	_ = m.Set(ctx, "next", "3", time.Hour)

	if _, ok, _ := m.Get(ctx, "forever"); !ok {
		t.Error("expected the entry without ttl to be kept")
	}
	if _, ok, _ := m.Get(ctx, "hour"); ok {
		t.Error("expected the expiring entry to be evicted")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Profit float64 `json:"profit"`
	}
	ctx := context.Background()
	m := NewMemory()

	if err := SetJSON(ctx, m, "report", payload{Profit: 48_563_850}, time.Minute); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}
	var got payload
	ok, err := GetJSON(ctx, m, "report", &got)
	if err != nil || !ok || got.Profit != 48_563_850 {
		t.Errorf("GetJSON() = %+v, %v, %v", got, ok, err)
	}

	_ = m.Set(ctx, "broken", "{", time.Minute)
	if _, err := GetJSON(ctx, m, "broken", &got); err == nil {
		t.Error("expected decode error")
	}
}

func TestKey(t *testing.T) {
	a, err := Key("analysis", map[string]float64{"occupancyRate": 0.33})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	b, _ := Key("analysis", map[string]float64{"occupancyRate": 0.33})
	c, _ := Key("analysis", map[string]float64{"occupancyRate": 0.34})

	if a != b {
		t.Errorf("equal inputs gave different keys %s %s", a, b)
	}
	if a == c {
		t.Error("different inputs gave the same key")
	}
	if !strings.HasPrefix(a, "analysis:") {
		t.Errorf("missing prefix in %s", a)
	}
	if _, err := Key("bad", func() {}); err == nil {
		t.Error("expected error for unencodable value")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		backend   string
		expectErr bool
	}{
		{"Default", "", false},
		{"Memory", BackendMemory, false},
		{"Redis", BackendRedis, false},
		{"Disabled", BackendNone, false},
		{"Unknown", "memcached", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(nil, config.CacheConfig{Backend: tt.backend, RedisAddress: "localhost:6379"})
			if (err != nil) != tt.expectErr {
				t.Fatalf("New() error = %v, expectErr %v", err, tt.expectErr)
			}
			if r, ok := c.(*Redis); ok {
				_ = r.Close()
			}
		})
	}
}
