// Package domain holds the value types shared by the pool, eviction and
// scheduler packages: the immutable description of a function, the
// (spec, time) invocation event a trace is made of, and the outcome
// vocabulary used to classify each invocation.
package domain

import "fmt"

// Kind identifies a function across invocations. Two FunctionSpecs
// describe "the same function" iff their Kind fields are equal; every
// other field is metadata about cost, not identity.
type Kind string

// FunctionSpec is an immutable description of a function's resource and
// timing profile. It is the unit the pool and eviction policies reason
// about: a Container is always "a container of some FunctionSpec".
type FunctionSpec struct {
	Kind Kind

	// MemSize is the memory footprint of a container of this kind, in
	// whatever unit the caller's trace uses (conventionally MB). Must be
	// positive; the priority function divides by it.
	MemSize int

	// RunTime is the wall-clock cost of a cold invocation.
	RunTime float64

	// WarmTime is the wall-clock cost of reusing an already-warm
	// container. Always <= RunTime.
	WarmTime float64
}

// Equal reports whether two specs describe the same function. Only Kind
// participates in the comparison.
func (s FunctionSpec) Equal(other FunctionSpec) bool {
	return s.Kind == other.Kind
}

// Validate checks the invariants FunctionSpec is assumed to hold
// everywhere else in this module: positive memory, non-negative
// durations, and warm time never exceeding cold time.
func (s FunctionSpec) Validate() error {
	if s.Kind == "" {
		return fmt.Errorf("domain: function spec has empty kind")
	}
	if s.MemSize <= 0 {
		return fmt.Errorf("domain: function spec %q has non-positive mem_size %d", s.Kind, s.MemSize)
	}
	if s.RunTime < 0 || s.WarmTime < 0 {
		return fmt.Errorf("domain: function spec %q has negative duration", s.Kind)
	}
	if s.WarmTime > s.RunTime {
		return fmt.Errorf("domain: function spec %q has warm_time %.2f greater than run_time %.2f", s.Kind, s.WarmTime, s.RunTime)
	}
	return nil
}

// ColdProcTime is the wall-clock time charged for a cold start of this
// spec, given the provider's fixed overhead and percentage markup on the
// function's own run time.
func (s FunctionSpec) ColdProcTime(overheadBase, overheadPct float64) float64 {
	return overheadBase + s.RunTime*(1+overheadPct)
}

// InvocationEvent pairs a FunctionSpec with the logical time it was
// invoked at. Traces are ordered sequences of these.
type InvocationEvent struct {
	Spec FunctionSpec
	Time float64
}

// Outcome classifies how the scheduler served a single invocation.
type Outcome string

const (
	OutcomeHit           Outcome = "hit"
	OutcomeMiss          Outcome = "miss"
	OutcomeCapacityMiss  Outcome = "capacity_miss"
)
