// Package pool manages the bounded-memory collection of warm containers
// that the scheduler draws on to serve invocations.
//
// # Design rationale
//
// The pool is the single source of truth for which containers exist and
// how much memory they occupy. It never decides which container to
// evict — that is an EvictionPolicy's job — and it never knows whether a
// container is currently executing an invocation, since "running" is
// scheduler state passed in by the caller on every call that needs it
// (see container.RunningSet). This split keeps the pool a pure data
// structure: add, remove, find, and a couple of invariant checks.
//
// # Concurrency model
//
// None. A Pool is single-threaded and synchronous, mirroring the
// scheduler that owns it; every method here assumes it runs to
// completion before the next one is called. Running independent
// Schedulers (each with its own Pool) on separate goroutines is fine —
// nothing is shared between them.
//
// # Invariants
//
//   - mem_used always equals the sum of MemSize over p.containers.
//   - mem_used never exceeds mem_capacity.
//   - Add never mutates state when it returns false.
//   - byKind is kept in the same relative order as containers, so
//     iterating a kind's containers always yields insertion order.
package pool

import (
	"errors"
	"fmt"

	"github.com/oriys/cachesim/internal/container"
	"github.com/oriys/cachesim/internal/domain"
)

// ErrRemovingRunning is returned by Remove when asked to detach a
// container that is currently in the scheduler's running set. It
// indicates a bug in an eviction policy or its caller: policies must
// only ever be handed idle candidates.
var ErrRemovingRunning = errors.New("pool: attempted to remove a running container")

// InvariantViolation indicates a memory-accounting bug in the core. It
// is fatal: AssertMemory is the core's internal consistency check, not
// a recoverable condition.
type InvariantViolation struct {
	Tracked   int
	Recomputed int
	Capacity  int
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("pool: invariant violation: tracked mem_used=%d, recomputed=%d, capacity=%d", e.Tracked, e.Recomputed, e.Capacity)
}

// Pool is a bounded-memory multiset of containers. Duplicate kinds are
// legal: a kind may have several independently evictable containers.
type Pool struct {
	containers  []*container.Container
	byKind      map[domain.Kind][]*container.Container
	memUsed     int
	memCapacity int
	nextID      container.ID
}

// New constructs an empty pool with the given fixed memory capacity.
func New(memCapacity int) *Pool {
	return &Pool{
		byKind:      make(map[domain.Kind][]*container.Container),
		memCapacity: memCapacity,
	}
}

// MemCapacity returns the pool's fixed memory budget.
func (p *Pool) MemCapacity() int { return p.memCapacity }

// MemUsed returns the tracked memory currently occupied by containers.
func (p *Pool) MemUsed() int { return p.memUsed }

// Len returns the number of containers currently in the pool.
func (p *Pool) Len() int { return len(p.containers) }

// Containers returns the pool's containers in insertion order. Callers
// must not retain the slice across a mutating call; it is reused.
func (p *Pool) Containers() []*container.Container { return p.containers }

// NewContainer allocates a fresh, COLD container for spec with a stable
// handle, without adding it to the pool. The caller is expected to pass
// it to Add immediately.
func (p *Pool) NewContainer(spec domain.FunctionSpec) *container.Container {
	p.nextID++
	return &container.Container{ID: p.nextID, Metadata: spec, State: container.StateCold}
}

// CheckFree reports whether a container of spec would fit without
// exceeding capacity.
func (p *Pool) CheckFree(spec domain.FunctionSpec) bool {
	return spec.MemSize+p.memUsed <= p.memCapacity
}

// Add inserts c into the pool if it fits, stamping its eviction-clock
// snapshot and priority as provided by the caller (the scheduler, which
// alone knows the current eviction clock and the priority formula's
// frequency term). On failure the pool is left completely unmutated.
func (p *Pool) Add(c *container.Container, clock float64, priority float64) bool {
	if !p.CheckFree(c.Metadata) {
		return false
	}
	c.Clock = clock
	c.Priority = priority
	p.containers = append(p.containers, c)
	p.byKind[c.Metadata.Kind] = append(p.byKind[c.Metadata.Kind], c)
	p.memUsed += c.Metadata.MemSize
	return true
}

// Remove detaches c from the pool and reclaims its memory. It fails with
// ErrRemovingRunning if c is a member of running; otherwise it always
// succeeds (removing an unknown container is a silent no-op, matching
// eviction's one-shot victim handling).
func (p *Pool) Remove(c *container.Container, running container.RunningSet) error {
	if running.Contains(c.ID) {
		return ErrRemovingRunning
	}

	idx := -1
	for i, cc := range p.containers {
		if cc == c {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	p.containers = append(p.containers[:idx], p.containers[idx+1:]...)
	p.removeFromKindIndex(c)
	p.memUsed -= c.Metadata.MemSize
	c.Terminate()
	return nil
}

func (p *Pool) removeFromKindIndex(c *container.Container) {
	siblings := p.byKind[c.Metadata.Kind]
	for i, cc := range siblings {
		if cc == c {
			p.byKind[c.Metadata.Kind] = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
}

// FindIdle returns the first (insertion-order) container matching spec
// that is not a member of running, or nil if none qualifies.
func (p *Pool) FindIdle(spec domain.FunctionSpec, running container.RunningSet) *container.Container {
	for _, c := range p.byKind[spec.Kind] {
		if !running.Contains(c.ID) {
			return c
		}
	}
	return nil
}

// Idle returns every container not currently in running, in insertion
// order. This is the candidate set handed to eviction policies; they
// must treat it as read-only.
func (p *Pool) Idle(running container.RunningSet) []*container.Container {
	idle := make([]*container.Container, 0, len(p.containers))
	for _, c := range p.containers {
		if !running.Contains(c.ID) {
			idle = append(idle, c)
		}
	}
	return idle
}

// SameKind returns every container of kind currently in the pool, in
// insertion order, for the scheduler's priority-refresh fan-out.
func (p *Pool) SameKind(kind domain.Kind) []*container.Container {
	return p.byKind[kind]
}

// AssertMemory recomputes mem_used from scratch and returns an
// InvariantViolation if it disagrees with the tracked value or exceeds
// capacity. Intended to run after every invocation in debug builds.
func (p *Pool) AssertMemory() error {
	sum := 0
	for _, c := range p.containers {
		sum += c.Metadata.MemSize
	}
	if sum != p.memUsed || sum > p.memCapacity {
		return &InvariantViolation{Tracked: p.memUsed, Recomputed: sum, Capacity: p.memCapacity}
	}
	return nil
}
