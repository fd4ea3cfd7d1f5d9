package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStatsCacheServesFromCacheOnSecondCall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.csv")
	if err := os.WriteFile(path, []byte("lambda,time,meta\nA,0,miss\nA,10,hit\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	sc := NewStatsCache(NewInMemoryCache(), time.Minute)
	ctx := context.Background()

	first, err := sc.MissStats(ctx, path)
	if err != nil {
		t.Fatalf("MissStats() error: %v", err)
	}
	if first["A"].Hits != 1 || first["A"].Misses != 1 {
		t.Fatalf("unexpected stats: %+v", first["A"])
	}

	// Remove the underlying file; a cache hit must still succeed.
	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	second, err := sc.MissStats(ctx, path)
	if err != nil {
		t.Fatalf("MissStats() second call error: %v", err)
	}
	if second["A"] != first["A"] {
		t.Fatalf("cached stats = %+v, want %+v", second["A"], first["A"])
	}
}

func TestStatsCacheInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.csv")
	if err := os.WriteFile(path, []byte("lambda,time,meta\nA,0,miss\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	sc := NewStatsCache(NewInMemoryCache(), time.Minute)
	ctx := context.Background()

	if _, err := sc.MissStats(ctx, path); err != nil {
		t.Fatalf("MissStats() error: %v", err)
	}
	if err := sc.Invalidate(ctx, path); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := sc.MissStats(ctx, path); err == nil {
		t.Fatal("expected an error after invalidation against a removed file")
	}
}
