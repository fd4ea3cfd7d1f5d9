package eviction

import (
	"sort"

	"github.com/oriys/cachesim/internal/container"
)

// LeastUsedPolicy evicts the least-frequently-invoked kinds first,
// treating kinds with no recorded invocations as frequency zero. Ties
// are broken by insertion order, which is preserved by using a stable
// sort over the candidate slice as handed to Pick.
type LeastUsedPolicy struct {
	freq FreqLookup
}

// NewLeastUsed constructs a LEAST_USED policy backed by a live frequency
// lookup.
func NewLeastUsed(freq FreqLookup) *LeastUsedPolicy {
	return &LeastUsedPolicy{freq: freq}
}

func (p *LeastUsedPolicy) Pick(toFree int, candidates []*container.Container) Result {
	sorted := append([]*container.Container(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return p.freq(sorted[i].Metadata.Kind) < p.freq(sorted[j].Metadata.Kind)
	})

	var victims []*container.Container
	for _, c := range sorted {
		if toFree <= 0 {
			break
		}
		victims = append(victims, c)
		toFree -= c.Metadata.MemSize
	}
	return Result{Victims: victims}
}
