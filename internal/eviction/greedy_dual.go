package eviction

import (
	"sort"

	"github.com/oriys/cachesim/internal/container"
	"github.com/oriys/cachesim/internal/domain"
)

// GreedyDualPolicy is a GDSF-inspired policy (selected under the
// trace-compatible name "CLOUD21"): it evicts by ascending priority, but
// prefers duplicate kinds first so that a kind already down to its last
// warm instance is not evicted while a sibling could be sacrificed
// instead. See Priority (priority.go) for the scoring formula;
// this policy only consumes the already-computed Priority field, it
// never recomputes it.
type GreedyDualPolicy struct{}

// NewGreedyDual constructs a GREEDY_DUAL policy. It holds no state: the
// eviction clock it advances lives in the scheduler, reported back via
// Result.NewEvictionClock.
func NewGreedyDual() *GreedyDualPolicy {
	return &GreedyDualPolicy{}
}

func (p *GreedyDualPolicy) Pick(toFree int, candidates []*container.Container) Result {
	sorted := append([]*container.Container(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	seen := make(map[domain.Kind]bool, len(sorted))
	var duplicates []*container.Container
	for _, c := range sorted {
		if seen[c.Metadata.Kind] {
			duplicates = append(duplicates, c)
		} else {
			seen[c.Metadata.Kind] = true
		}
	}

	remaining := append([]*container.Container(nil), sorted...)
	var victims []*container.Container

	for toFree > 0 && len(remaining) > 0 {
		var victim *container.Container
		if len(duplicates) > 0 {
			victim = duplicates[0]
		} else {
			victim = remaining[0]
		}

		remaining = removeContainer(remaining, victim)
		duplicates = removeContainer(duplicates, victim)

		victims = append(victims, victim)
		toFree -= victim.Metadata.MemSize
	}

	result := Result{Victims: victims}
	if len(victims) > 0 {
		clock := victims[len(victims)-1].Priority
		result.NewEvictionClock = &clock
	}
	return result
}

func removeContainer(list []*container.Container, target *container.Container) []*container.Container {
	for i, c := range list {
		if c == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
