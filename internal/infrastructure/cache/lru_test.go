package cache

import (
	"context"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string](time.Minute, 10)

	c.Set("meeting:u1:m1", "v1")
	got, ok := c.Get("meeting:u1:m1")
	if !ok || got != "v1" {
		t.Fatalf("expected hit with v1, got %q ok=%v", got, ok)
	}

	if _, ok := c.Get("meeting:u1:missing"); ok {
		t.Fatal("expected miss for absent key")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New[int](50*time.Millisecond, 10)

	c.Set("k", 42)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after ttl elapsed")
	}
	// the expired entry is evicted on access
	if c.Len() != 0 {
		t.Fatalf("expected 0 entries after expired read, got %d", c.Len())
	}
}

func TestCache_LRUEviction(t *testing.T) {
	c := New[int](time.Minute, 3)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch a and c so b is the least recently used.
	c.Get("a")
	c.Get("c")

	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b evicted as least recently used")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Fatalf("expected %s to survive eviction", key)
		}
	}
}

func TestCache_ZeroTTLDisabled(t *testing.T) {
	c := New[string](0, 10)

	c.Set("k", "v")
	if _, ok := c.Get("k"); ok {
		t.Fatal("zero ttl must disable caching")
	}
	if c.Len() != 0 {
		t.Fatalf("disabled cache must stay empty, got %d entries", c.Len())
	}

	var nilCache *Cache[string]
	nilCache.Set("k", "v") // must not panic
	if _, ok := nilCache.Get("k"); ok {
		t.Fatal("nil cache must miss")
	}
}

func TestCache_InvalidatePrefix(t *testing.T) {
	c := New[int](time.Minute, 10)

	c.Set("meetings:user:u1", 1)
	c.Set("meetings:team:t1", 2)
	c.Set("meetings:team:t2", 3)
	c.Set("team:t1", 4)

	c.InvalidatePrefix("meetings:team:")

	if _, ok := c.Get("meetings:team:t1"); ok {
		t.Fatal("expected meetings:team:t1 invalidated")
	}
	if _, ok := c.Get("meetings:team:t2"); ok {
		t.Fatal("expected meetings:team:t2 invalidated")
	}
	if _, ok := c.Get("meetings:user:u1"); !ok {
		t.Fatal("expected meetings:user:u1 untouched")
	}
	if _, ok := c.Get("team:t1"); !ok {
		t.Fatal("expected team:t1 untouched")
	}
}

func TestCache_SetReplacesAndResetsTTL(t *testing.T) {
	c := New[string](100*time.Millisecond, 10)

	c.Set("k", "old")
	time.Sleep(60 * time.Millisecond)
	c.Set("k", "new")
	time.Sleep(60 * time.Millisecond)

	// 120ms since first insert but only 60ms since the rewrite.
	got, ok := c.Get("k")
	if !ok || got != "new" {
		t.Fatalf("expected rewritten entry to be live, got %q ok=%v", got, ok)
	}
}

func TestMemoryStore_Reserve(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	fresh, err := ms.Reserve(ctx, "notify:k1:u1", time.Minute)
	if err != nil || !fresh {
		t.Fatalf("first reserve must succeed, fresh=%v err=%v", fresh, err)
	}

	fresh, err = ms.Reserve(ctx, "notify:k1:u1", time.Minute)
	if err != nil || fresh {
		t.Fatalf("second reserve must be suppressed, fresh=%v err=%v", fresh, err)
	}

	// A different user under the same dedup key is its own reservation.
	fresh, err = ms.Reserve(ctx, "notify:k1:u2", time.Minute)
	if err != nil || !fresh {
		t.Fatalf("per-user reserve must succeed, fresh=%v err=%v", fresh, err)
	}
}

func TestMemoryStore_ReserveExpires(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	if fresh, _ := ms.Reserve(ctx, "k", 30*time.Millisecond); !fresh {
		t.Fatal("first reserve must succeed")
	}
	time.Sleep(50 * time.Millisecond)
	if fresh, _ := ms.Reserve(ctx, "k", 30*time.Millisecond); !fresh {
		t.Fatal("reserve after expiry must succeed again")
	}
}
