package eviction

import (
	"math/rand"

	"github.com/oriys/cachesim/internal/container"
)

// RandPolicy evicts candidates chosen uniformly at random, without
// replacement. Its source of randomness is injected at construction
// rather than pulled from the package-global rand functions, so tests
// can reproduce an exact victim sequence from a fixed seed.
type RandPolicy struct {
	rng *rand.Rand
}

// NewRand constructs a RAND policy seeded deterministically.
func NewRand(seed int64) *RandPolicy {
	return &RandPolicy{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandPolicy) Pick(toFree int, candidates []*container.Container) Result {
	pool := append([]*container.Container(nil), candidates...)
	var victims []*container.Container

	for toFree > 0 && len(pool) > 0 {
		i := p.rng.Intn(len(pool))
		victims = append(victims, pool[i])
		toFree -= pool[i].Metadata.MemSize
		pool = append(pool[:i], pool[i+1:]...)
	}
	return Result{Victims: victims}
}
