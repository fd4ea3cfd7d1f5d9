package main

import (
	"testing"

	"github.com/oriys/cachesim/internal/domain"
	"github.com/oriys/cachesim/internal/scheduler"
)

func TestSummarizeRunSkipsUntouchedKinds(t *testing.T) {
	sched, err := scheduler.New("LEAST_USED", 512)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	a := domain.FunctionSpec{Kind: "A", MemSize: 256, RunTime: 1000, WarmTime: 100}
	if err := sched.Invoke(a, 0); err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}
	if err := sched.Invoke(a, 5000); err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}

	specs := map[domain.Kind]domain.FunctionSpec{
		"A": a,
		"B": {Kind: "B", MemSize: 128, RunTime: 500, WarmTime: 50},
	}

	summary := summarizeRun(sched, specs, scheduler.DefaultProviderOverheadBase, scheduler.DefaultProviderOverheadPct)

	if len(summary.Kinds) != 1 {
		t.Fatalf("expected only invoked kinds in the summary, got %d entries", len(summary.Kinds))
	}
	got := summary.Kinds[0]
	if got.Kind != "A" || got.Hits != 1 || got.Misses != 1 {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if got.TotalCost <= 0 {
		t.Fatalf("expected positive total cost, got %v", got.TotalCost)
	}
}
