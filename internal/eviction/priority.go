package eviction

import "github.com/oriys/cachesim/internal/domain"

// Priority computes the GREEDY_DUAL score for a container: its ageing
// clock plus a demand-weighted, cost-per-memory-unit term. Lower scores
// are evicted first. clock is the container's own Clock field (the
// eviction-clock snapshot at insertion or last refresh); freq is the
// live invocation count for spec.Kind.
func Priority(spec domain.FunctionSpec, clock float64, freq int) float64 {
	return clock + float64(freq)*(spec.RunTime-spec.WarmTime)/float64(spec.MemSize)
}
