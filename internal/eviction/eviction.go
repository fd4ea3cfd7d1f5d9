// Package eviction implements the four container-eviction strategies the
// scheduler can be configured with: RAND, LEAST_USED, MAX_MEM, and
// GREEDY_DUAL (selected under the trace-compatible name "CLOUD21").
//
// # Design rationale
//
// All four strategies share one operation and one contract: given a
// number of memory units to free and the current idle candidates, return
// a subset of those candidates, in eviction order, that is a lower bound
// (not necessarily exact) on the memory to reclaim. None of them ever
// mutates the candidates slice or any container field — Pick is a pure
// function of its inputs. The scheduler performs the actual pool
// removals once a policy has spoken.
//
// Only GREEDY_DUAL needs to report anything beyond the victim list (the
// eviction clock it wants the scheduler to adopt); Result carries that
// as an optional field rather than forcing every policy to plumb a
// meaningless zero value through.
package eviction

import (
	"errors"
	"fmt"

	"github.com/oriys/cachesim/internal/container"
	"github.com/oriys/cachesim/internal/domain"
)

// ErrUnknownPolicy is returned by New when asked to construct a policy
// by a name it does not recognize. Construction-time, fatal.
var ErrUnknownPolicy = errors.New("eviction: unknown policy")

// Result is the outcome of a single Pick call.
type Result struct {
	// Victims is a subset of the candidates passed to Pick, in the order
	// they should be removed from the pool. Never contains duplicates.
	Victims []*container.Container

	// NewEvictionClock, when non-nil, is the value the scheduler should
	// advance its logical eviction clock to. Only GREEDY_DUAL sets this;
	// every other policy leaves it nil and the clock is left unchanged.
	NewEvictionClock *float64
}

// Policy selects victims sufficient to free a requested amount of
// memory from a set of idle candidates.
type Policy interface {
	// Pick selects containers to evict. candidates is the full idle set
	// (not running); toFree is the number of memory units the caller
	// still needs. Pick stops as soon as toFree is satisfied or
	// candidates are exhausted — the cumulative freed memory may exceed
	// toFree, since eviction proceeds in whole-container steps.
	Pick(toFree int, candidates []*container.Container) Result
}

// Name identifies one of the four supported policies, matching the
// construction-time strings the scheduler accepts.
type Name string

const (
	RAND       Name = "RAND"
	LeastUsed  Name = "LEAST_USED"
	MaxMem     Name = "MAX_MEM"
	GreedyDual Name = "CLOUD21"
)

// New constructs the eviction policy named by name. seed is used only by
// RAND, where it makes victim selection deterministic for testing;
// freq is the scheduler's live function_freq map, consulted by
// LEAST_USED on every Pick (policies never cache it, since frequencies
// change between invocations).
func New(name string, seed int64, freq FreqLookup) (Policy, error) {
	switch Name(name) {
	case RAND:
		return NewRand(seed), nil
	case LeastUsed:
		return NewLeastUsed(freq), nil
	case MaxMem:
		return NewMaxMem(), nil
	case GreedyDual:
		return NewGreedyDual(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// FreqLookup resolves a container's invocation frequency by kind. It is
// satisfied by the scheduler's function_freq map via a small adapter, so
// LEAST_USED always sees live counts rather than a stale copy.
type FreqLookup func(kind domain.Kind) int
