package metrics

import "testing"

func TestRecordHitAndMissConservation(t *testing.T) {
	m := New()
	m.RecordMiss("A")
	m.RecordHit("A")
	m.RecordHit("A")
	m.RecordCapacityMiss("A")

	snaps := m.Snapshots()
	if len(snaps) != 1 {
		t.Fatalf("expected 1 kind snapshot, got %d", len(snaps))
	}
	got := snaps[0]
	if got.Invocations != got.Hits+got.Misses+got.CapacityMisses {
		t.Fatalf("invocations=%d, hits+misses+capacity_misses=%d", got.Invocations, got.Hits+got.Misses+got.CapacityMisses)
	}
	if got.Hits != 2 || got.Misses != 1 || got.CapacityMisses != 1 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestSetPoolGauges(t *testing.T) {
	m := New()
	m.SetPoolGauges(128, 512, 3)

	if m.MemUsed.Load() != 128 || m.MemCapacity.Load() != 512 || m.PoolSize.Load() != 3 {
		t.Fatalf("unexpected gauges: used=%d cap=%d size=%d", m.MemUsed.Load(), m.MemCapacity.Load(), m.PoolSize.Load())
	}
}
