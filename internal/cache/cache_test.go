package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestNew_InvalidSize(t *testing.T) {
	if _, err := New[string, int](0); err == nil {
		t.Error("New(0) expected error, got nil")
	}
}

func TestCache_GetPutEvict(t *testing.T) {
	c, err := New[string, string](4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, ok := c.Get("a"); ok {
		t.Fatal("Get on empty cache returned ok")
	}

	c.Put("a", "first")
	if v, ok := c.Get("a"); !ok || v != "first" {
		t.Fatalf("Get(a) = %q, %v; want first, true", v, ok)
	}

	c.Put("a", "second")
	if v, _ := c.Get("a"); v != "second" {
		t.Errorf("Get(a) after overwrite = %q, want second", v)
	}

	c.Evict("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Get(a) after Evict returned ok")
	}

	c.Evict("never-stored")

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 2 {
		t.Errorf("Stats = %+v, want 2 hits and 2 misses", stats)
	}
}

func TestCache_BoundedLRU(t *testing.T) {
	c, err := New[int, int](2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	c.Put(1, 1)
	c.Put(2, 2)
	c.Get(1) // 2 becomes least recently used
	c.Put(3, 3)

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(2); ok {
		t.Error("least recently used key 2 should have been dropped")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("key 1 should still be cached")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d, want 0", c.Len())
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c, err := New[string, int](64)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := range 200 {
				key := fmt.Sprintf("k%d", j%32)
				c.Put(key, worker)
				c.Get(key)
				if j%5 == 0 {
					c.Evict(key)
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 64 {
		t.Errorf("Len() = %d, exceeds bound", c.Len())
	}
}
