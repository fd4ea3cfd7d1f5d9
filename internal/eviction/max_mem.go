package eviction

import (
	"sort"

	"github.com/oriys/cachesim/internal/container"
)

// MaxMemPolicy evicts the largest containers first, on the theory that
// reclaiming a single big container is cheaper (in eviction count) than
// reclaiming several small ones. Ties are broken by insertion order.
type MaxMemPolicy struct{}

// NewMaxMem constructs a MAX_MEM policy. It holds no state.
func NewMaxMem() *MaxMemPolicy {
	return &MaxMemPolicy{}
}

func (p *MaxMemPolicy) Pick(toFree int, candidates []*container.Container) Result {
	sorted := append([]*container.Container(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Metadata.MemSize > sorted[j].Metadata.MemSize
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
