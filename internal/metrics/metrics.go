// Package metrics collects and exposes a simulation run's live counters.
//
// # Design rationale
//
// Two metric stores coexist in this package:
//
//  1. The in-process Metrics struct (per-kind atomic counters) for a
//     lightweight JSON endpoint a driver program can poll mid-run.
//  2. A Prometheus registry (prometheus.go) for scraping by an external
//     monitoring stack when many simulation runs are driven in parallel
//     and compared in a dashboard.
//
// Keeping both lets a single-shot CLI invocation print a JSON summary
// with no Prometheus dependency, while a long-running sweep across
// policies can still be scraped like any other service.
//
// # Concurrency
//
// Each Record* method counts one Scheduler.Invoke outcome (or one
// eviction). They use atomic increments exclusively; the sync.Map holding per-kind entries is
// read-heavy and write-once-per-new-kind, which is the case sync.Map is
// built for. Nothing here assumes it is only ever touched by one
// goroutine — unlike the scheduler core, a metrics sink may reasonably
// aggregate several independent Scheduler runs reporting concurrently.
//
// # Invariants
//
//   - For every kind, Hits + Misses + CapacityMisses == Invocations.
package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
)

// KindMetrics holds the atomic counters tracked for one function kind.
type KindMetrics struct {
	Invocations    atomic.Int64
	Hits           atomic.Int64
	Misses         atomic.Int64
	CapacityMisses atomic.Int64
	Evictions      atomic.Int64
}

// Snapshot is a point-in-time, JSON-serializable copy of KindMetrics.
type Snapshot struct {
	Kind           string `json:"kind"`
	Invocations    int64  `json:"invocations"`
	Hits           int64  `json:"hits"`
	Misses         int64  `json:"misses"`
	CapacityMisses int64  `json:"capacity_misses"`
	Evictions      int64  `json:"evictions"`
}

// Metrics collects per-kind simulation counters plus pool-wide gauges.
type Metrics struct {
	kinds sync.Map // domain.Kind (string) -> *KindMetrics

	MemUsed     atomic.Int64
	MemCapacity atomic.Int64
	PoolSize    atomic.Int64
}

// New constructs an empty Metrics store.
func New() *Metrics {
	return &Metrics{}
}

func (m *Metrics) kindMetrics(kind string) *KindMetrics {
	v, _ := m.kinds.LoadOrStore(kind, &KindMetrics{})
	return v.(*KindMetrics)
}

// RecordHit increments the hit and invocation counters for kind.
func (m *Metrics) RecordHit(kind string) {
	km := m.kindMetrics(kind)
	km.Invocations.Add(1)
	km.Hits.Add(1)
}

// RecordMiss increments the miss and invocation counters for kind.
func (m *Metrics) RecordMiss(kind string) {
	km := m.kindMetrics(kind)
	km.Invocations.Add(1)
	km.Misses.Add(1)
}

// RecordCapacityMiss increments the capacity-miss and invocation
// counters for kind.
func (m *Metrics) RecordCapacityMiss(kind string) {
	km := m.kindMetrics(kind)
	km.Invocations.Add(1)
	km.CapacityMisses.Add(1)
}

// RecordEviction increments the eviction counter for kind.
func (m *Metrics) RecordEviction(kind string) {
	m.kindMetrics(kind).Evictions.Add(1)
}

// SetPoolGauges updates the pool-wide memory and size gauges; the
// caller reads these from Pool after every invocation.
func (m *Metrics) SetPoolGauges(memUsed, memCapacity, poolSize int) {
	m.MemUsed.Store(int64(memUsed))
	m.MemCapacity.Store(int64(memCapacity))
	m.PoolSize.Store(int64(poolSize))
}

// Snapshots returns a stable, JSON-friendly copy of every kind's
// counters observed so far.
func (m *Metrics) Snapshots() []Snapshot {
	var out []Snapshot
	m.kinds.Range(func(key, value any) bool {
		km := value.(*KindMetrics)
		out = append(out, Snapshot{
			Kind:           key.(string),
			Invocations:    km.Invocations.Load(),
			Hits:           km.Hits.Load(),
			Misses:         km.Misses.Load(),
			CapacityMisses: km.CapacityMisses.Load(),
			Evictions:      km.Evictions.Load(),
		})
		return true
	})
	return out
}

// ServeHTTP implements http.Handler, rendering the current snapshot as
// JSON. Intended to be mounted at a debug endpoint such as /debug/metrics
// alongside the Prometheus /metrics handler.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Kinds       []Snapshot `json:"kinds"`
		MemUsed     int64      `json:"mem_used"`
		MemCapacity int64      `json:"mem_capacity"`
		PoolSize    int64      `json:"pool_size"`
	}{
		Kinds:       m.Snapshots(),
		MemUsed:     m.MemUsed.Load(),
		MemCapacity: m.MemCapacity.Load(),
		PoolSize:    m.PoolSize.Load(),
	})
}
