// Package container defines the Container type: one instance of a
// FunctionSpec living in the pool, plus the eviction-priority bookkeeping
// each container carries between invocations.
//
// # Lifecycle
//
// A Container is created COLD, transitions to WARM once it is added to
// the pool, moves to RUNNING for the duration of an invocation, and
// either returns to WARM when its finish time elapses or is evicted to
// TERM. State here is advisory bookkeeping only: the authoritative
// answer to "is this container currently executing" is membership in
// the scheduler's running set, not the State field (see the scheduler
// package).
package container

import "github.com/oriys/cachesim/internal/domain"

// State is the advisory lifecycle stage of a Container.
type State int

const (
	StateCold State = iota
	StateWarm
	StateRunning
	StateTerm
)

func (s State) String() string {
	switch s {
	case StateCold:
		return "COLD"
	case StateWarm:
		return "WARM"
	case StateRunning:
		return "RUNNING"
	case StateTerm:
		return "TERM"
	default:
		return "UNKNOWN"
	}
}

// ID is a stable handle for a container, distinct from its FunctionSpec's
// Kind. Handles are allocated by the pool on insertion and never reused
// within a single pool's lifetime; they are what the scheduler's running
// set keys on, never FunctionSpec equality (two containers of the same
// kind are different entries in the running set).
type ID uint64

// Container is one warm/cold/running/terminated instance of a function.
// It is owned by exactly one Pool; callers never construct one directly,
// they allocate it with Pool.NewContainer and insert it with Pool.Add.
type Container struct {
	ID       ID
	Metadata domain.FunctionSpec
	State    State

	// Clock is a snapshot of the pool's logical eviction clock taken at
	// insertion or last priority refresh. It is the ageing term in the
	// priority function. Stored as float64 rather than an integer
	// counter because GREEDY_DUAL advances the clock to a victim's
	// real-valued priority, and that new value must be carried forward
	// exactly — truncating it to an integer would corrupt every later
	// priority computed against it.
	Clock float64

	// Priority is the container's eviction score; GREEDY_DUAL evicts the
	// lowest priority first. Recomputed by the scheduler on insertion,
	// on every hit against this container's kind, and whenever a sibling
	// of the same kind is invoked.
	Priority float64
}

// IsIdle reports whether the container's advisory state permits reuse.
// A container is idle once it is no longer RUNNING; TERM containers are
// never idle because they are removed from the pool immediately.
func (c *Container) IsIdle() bool {
	return c.State == StateCold || c.State == StateWarm
}

// Prewarm marks a freshly created container as warm. Called once, right
// after a cold miss adds the container to the pool and before it is
// immediately flipped to RUNNING for the invocation that caused the miss.
func (c *Container) Prewarm() {
	c.State = StateWarm
}

// Run marks the container as currently executing an invocation.
func (c *Container) Run() {
	c.State = StateRunning
}

// Finish returns a running container to the warm idle state. Called by
// the scheduler's cleanup step once wall time has passed the container's
// recorded finish time.
func (c *Container) Finish() {
	c.State = StateWarm
}

// Terminate marks a container as evicted. The pool removes terminated
// containers from its backing store in the same step; State is set
// first so that any lingering reference observes TERM rather than a
// stale WARM/COLD value.
func (c *Container) Terminate() {
	c.State = StateTerm
}

// RunningSet is the scheduler's weak reference to the containers it
// currently has executing. Pool and eviction never mutate it; they only
// query membership to decide what is safe to touch.
type RunningSet map[ID]struct{}

// Contains reports whether id is currently running.
func (r RunningSet) Contains(id ID) bool {
	_, ok := r[id]
	return ok
}
