// Package scheduler implements the simulator's sole entry point:
// Invoke(spec, time), which classifies one trace event as a hit, a cold
// miss, or a capacity miss, drives eviction when necessary, and keeps
// the pool's invariants intact.
//
// # Concurrency model
//
// Single-threaded and synchronous, by contract: Invoke runs to
// completion before the next call begins, and there are no suspension
// points inside it. Parallelism is only safe across independent
// Scheduler instances — e.g. one per simulated experiment — each with
// its own Pool, running set, and counters. Nothing here uses a mutex,
// because nothing here is meant to be shared across goroutines.
//
// # Failure behaviour
//
// Capacity misses are accounted, not errors: Invoke returns nil and the
// caller reads CapacityMisses to see them. Invariant mismatches and
// attempts to evict a running container are both programming errors in
// the core or an eviction policy, and are returned as errors rather than
// panicking, since a simulation driver may want to abort a run cleanly
// rather than crash the process.
package scheduler

import (
	"fmt"

	"github.com/oriys/cachesim/internal/container"
	"github.com/oriys/cachesim/internal/domain"
	"github.com/oriys/cachesim/internal/eventsink"
	"github.com/oriys/cachesim/internal/eviction"
	"github.com/oriys/cachesim/internal/pool"
)

// Default cold-start cost model constants (see FunctionSpec.ColdProcTime).
const (
	DefaultProviderOverheadBase = 3000.0
	DefaultProviderOverheadPct  = 0.2
)

type runInfo struct {
	start  float64
	finish float64
}

// Scheduler is the discrete-event orchestrator described at package
// level. Construct one with New; all further interaction goes through
// Invoke and the read-only accessors below.
type Scheduler struct {
	pool   *pool.Pool
	policy eviction.Policy

	running container.RunningSet
	runInfo map[container.ID]runInfo

	wallTime      float64
	evictionClock float64

	functionFreq   map[domain.Kind]int64
	hits           map[domain.Kind]int64
	misses         map[domain.Kind]int64
	evictions      map[domain.Kind]int64
	capacityMisses map[domain.Kind]int64
	history        []domain.InvocationEvent

	sink eventsink.Sink

	overheadBase float64
	overheadPct  float64
	randSeed     int64

	// AssertInvariants controls whether AssertMemory runs after every
	// successful invocation. Spec-compliant debug builds leave this on;
	// set it false to skip the O(pool) recomputation on a hot loop once
	// a trace is known-good.
	AssertInvariants bool
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithSink attaches an event sink; Invoke calls Record on it for every
// hit and miss (never for capacity misses).
func WithSink(sink eventsink.Sink) Option {
	return func(s *Scheduler) { s.sink = sink }
}

// WithOverhead overrides the cold-start cost model constants.
func WithOverhead(base, pct float64) Option {
	return func(s *Scheduler) {
		s.overheadBase = base
		s.overheadPct = pct
	}
}

// WithRandSeed sets the seed used when policyName is RAND. Ignored for
// other policies.
func WithRandSeed(seed int64) Option {
	return func(s *Scheduler) { s.randSeed = seed }
}

// New constructs a Scheduler bound to a fresh pool of the given memory
// capacity and the named eviction policy. policyName must be one of
// "RAND", "LEAST_USED", "MAX_MEM", "CLOUD21" (CLOUD21 selects
// GREEDY_DUAL); any other value fails with eviction.ErrUnknownPolicy.
func New(policyName string, memCapacity int, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		pool:             pool.New(memCapacity),
		running:          make(container.RunningSet),
		runInfo:          make(map[container.ID]runInfo),
		functionFreq:     make(map[domain.Kind]int64),
		hits:             make(map[domain.Kind]int64),
		misses:           make(map[domain.Kind]int64),
		evictions:        make(map[domain.Kind]int64),
		capacityMisses:   make(map[domain.Kind]int64),
		overheadBase:     DefaultProviderOverheadBase,
		overheadPct:      DefaultProviderOverheadPct,
		AssertInvariants: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	freqLookup := func(kind domain.Kind) int { return int(s.functionFreq[kind]) }
	policy, err := eviction.New(policyName, s.randSeed, freqLookup)
	if err != nil {
		return nil, err
	}
	s.policy = policy
	return s, nil
}

// Invoke classifies a single trace event, mutates pool and scheduler
// state accordingly, and returns an error only for a structural fault
// (time preceding the current wall time, an invariant violation, an
// eviction policy returning a running container, or a sink I/O error).
// time must be >= the scheduler's current wall time.
func (s *Scheduler) Invoke(spec domain.FunctionSpec, time float64) error {
	if time < s.wallTime {
		return fmt.Errorf("scheduler: time %v precedes wall_time %v", time, s.wallTime)
	}
	s.wallTime = time

	s.cleanupFinished()

	s.functionFreq[spec.Kind]++

	if idle := s.pool.FindIdle(spec, s.running); idle != nil {
		return s.serveHit(spec, idle, time)
	}
	return s.serveMiss(spec, time)
}

// cleanupFinished returns every container whose finish time has elapsed
// to the idle pool. A container finishing exactly at wall_time is
// reusable for the invocation being classified right now, since this
// runs before lookup in Invoke.
func (s *Scheduler) cleanupFinished() {
	for id, info := range s.runInfo {
		if info.finish <= s.wallTime {
			delete(s.running, id)
			delete(s.runInfo, id)
			for _, c := range s.pool.Containers() {
				if c.ID == id {
					c.Finish()
					break
				}
			}
		}
	}
}

func (s *Scheduler) serveHit(spec domain.FunctionSpec, c *container.Container, time float64) error {
	c.Clock = s.evictionClock
	c.Priority = eviction.Priority(c.Metadata, c.Clock, int(s.functionFreq[spec.Kind]))
	c.Run()

	s.running[c.ID] = struct{}{}
	s.runInfo[c.ID] = runInfo{start: time, finish: time + spec.WarmTime}

	if s.sink != nil {
		if err := s.sink.Record(spec.Kind, time, domain.OutcomeHit); err != nil {
			return fmt.Errorf("scheduler: log hit: %w", err)
		}
	}
	s.hits[spec.Kind]++

	s.refreshKindPriorities(spec.Kind, c.Priority)
	s.history = append(s.history, domain.InvocationEvent{Spec: spec, Time: time})
	return s.maybeAssertInvariants()
}

func (s *Scheduler) serveMiss(spec domain.FunctionSpec, time float64) error {
	if !s.pool.CheckFree(spec) {
		if err := s.evict(spec.MemSize); err != nil {
			return err
		}
	}

	c := s.pool.NewContainer(spec)
	priority := eviction.Priority(spec, s.evictionClock, int(s.functionFreq[spec.Kind]))
	if !s.pool.Add(c, s.evictionClock, priority) {
		s.capacityMisses[spec.Kind]++
		return nil
	}

	c.Prewarm()
	c.Run()
	finish := time + spec.ColdProcTime(s.overheadBase, s.overheadPct)
	s.running[c.ID] = struct{}{}
	s.runInfo[c.ID] = runInfo{start: time, finish: finish}

	if s.sink != nil {
		if err := s.sink.Record(spec.Kind, time, domain.OutcomeMiss); err != nil {
			return fmt.Errorf("scheduler: log miss: %w", err)
		}
	}
	s.misses[spec.Kind]++

	s.refreshKindPriorities(spec.Kind, c.Priority)
	s.history = append(s.history, domain.InvocationEvent{Spec: spec, Time: time})
	return s.maybeAssertInvariants()
}

func (s *Scheduler) evict(toFree int) error {
	candidates := s.pool.Idle(s.running)
	result := s.policy.Pick(toFree, candidates)

	for _, victim := range result.Victims {
		if err := s.pool.Remove(victim, s.running); err != nil {
			return fmt.Errorf("scheduler: evict: %w", err)
		}
		s.evictions[victim.Metadata.Kind]++
	}
	if result.NewEvictionClock != nil {
		s.evictionClock = *result.NewEvictionClock
	}
	return nil
}

// refreshKindPriorities assigns priority to every container sharing
// kind, so siblings share the just-refreshed priority of the invoked
// instance rather than each ageing off their own stale Clock.
func (s *Scheduler) refreshKindPriorities(kind domain.Kind, priority float64) {
	for _, c := range s.pool.SameKind(kind) {
		c.Priority = priority
	}
}

func (s *Scheduler) maybeAssertInvariants() error {
	if !s.AssertInvariants {
		return nil
	}
	return s.pool.AssertMemory()
}

// Pool exposes the underlying pool for read-only inspection (tests,
// post-run accessors).
func (s *Scheduler) Pool() *pool.Pool { return s.pool }

// WallTime returns the scheduler's current logical time.
func (s *Scheduler) WallTime() float64 { return s.wallTime }

// EvictionClock returns the current GREEDY_DUAL eviction clock value.
func (s *Scheduler) EvictionClock() float64 { return s.evictionClock }

// FunctionFreq returns the number of invocations observed for kind.
func (s *Scheduler) FunctionFreq(kind domain.Kind) int64 { return s.functionFreq[kind] }

// Hits returns the number of hits observed for kind.
func (s *Scheduler) Hits(kind domain.Kind) int64 { return s.hits[kind] }

// Misses returns the number of cold misses observed for kind.
func (s *Scheduler) Misses(kind domain.Kind) int64 { return s.misses[kind] }

// Evictions returns the number of evictions of containers of kind.
func (s *Scheduler) Evictions(kind domain.Kind) int64 { return s.evictions[kind] }

// CapacityMisses returns the number of capacity misses recorded for kind.
func (s *Scheduler) CapacityMisses(kind domain.Kind) int64 { return s.capacityMisses[kind] }

// History returns the ordered sequence of successfully served
// invocations (hits and misses; capacity misses are excluded, matching
// the CSV log they mirror).
func (s *Scheduler) History() []domain.InvocationEvent { return s.history }
