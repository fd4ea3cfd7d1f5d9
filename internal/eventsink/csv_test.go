package eventsink

import (
	"path/filepath"
	"testing"

	"github.com/oriys/cachesim/internal/domain"
)

func TestCSVSinkWritesExpectedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	sink, err := NewCSVSink(path)
	if err != nil {
		t.Fatalf("NewCSVSink() error: %v", err)
	}
	if err := sink.Record("A", 0, domain.OutcomeMiss); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if err := sink.Record("A", 5000, domain.OutcomeHit); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	stats, err := MissStats(path)
	if err != nil {
		t.Fatalf("MissStats() error: %v", err)
	}
	got := stats["A"]
	if got.Hits != 1 || got.Misses != 1 {
		t.Fatalf("MissStats()[A] = %+v, want {Hits:1 Misses:1}", got)
	}
}

func TestLogPathFormat(t *testing.T) {
	got := LogPath("/tmp/logs", "CLOUD21", 12, 4096, "run-1")
	want := "/tmp/logs/CLOUD21-12-4096-run-1-performancelog.csv"
	if got != want {
		t.Fatalf("LogPath() = %q, want %q", got, want)
	}
}
