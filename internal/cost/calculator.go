// Package cost turns a finished scheduler run into an abstract dollar
// estimate. It is additive: the simulator core never consults it, and a
// run with no Calculator attached behaves identically. It exists so a
// driver program can answer "which policy is cheaper", not just "which
// policy has fewer misses".
package cost

// Pricing holds per-resource cost rates, in abstract cost units (ACU).
// The zero value is useless; start from DefaultPricing and override
// only the rates a particular report needs to vary.
type Pricing struct {
	InvocationUnit float64 `json:"invocation_unit"` // charged once per served invocation
	ComputeUnit    float64 `json:"compute_unit"`    // per MB-millisecond of execution
	ColdStartUnit  float64 `json:"cold_start_unit"` // charged once per cold miss
}

// DefaultPricing mirrors a small public-cloud function price list closely
// enough to produce plausible relative costs between policies; it is not
// meant to model any specific provider's bill.
var DefaultPricing = Pricing{
	InvocationUnit: 0.0000002,
	ComputeUnit:    0.0000000167,
	ColdStartUnit:  0.000001,
}

// InvocationCost is the cost breakdown for a single served invocation.
type InvocationCost struct {
	InvocationCost float64 `json:"invocation_cost"`
	ComputeCost    float64 `json:"compute_cost"`
	ColdStartCost  float64 `json:"cold_start_cost"`
	TotalCost      float64 `json:"total_cost"`
}

// KindCostSummary aggregates cost over every invocation of one kind
// across a run.
type KindCostSummary struct {
	Kind            string  `json:"kind"`
	Hits            int64   `json:"hits"`
	Misses          int64   `json:"misses"`
	CapacityMisses  int64   `json:"capacity_misses"`
	InvocationsCost float64 `json:"invocations_cost"`
	ComputeCost     float64 `json:"compute_cost"`
	ColdStartCost   float64 `json:"cold_start_cost"`
	TotalCost       float64 `json:"total_cost"`
}

// RunSummary aggregates KindCostSummary across every kind in a run.
type RunSummary struct {
	Kinds     []*KindCostSummary `json:"kinds"`
	TotalCost float64            `json:"total_cost"`
}

// Calculator computes invocation costs under a fixed pricing model.
type Calculator struct {
	pricing Pricing
}

// NewCalculator builds a Calculator bound to pricing.
func NewCalculator(pricing Pricing) *Calculator {
	return &Calculator{pricing: pricing}
}

// NewDefaultCalculator builds a Calculator using DefaultPricing.
func NewDefaultCalculator() *Calculator {
	return &Calculator{pricing: DefaultPricing}
}

// Pricing returns the calculator's pricing model.
func (c *Calculator) Pricing() Pricing { return c.pricing }

// CalcInvocation prices one served invocation: memMB is the container's
// memory footprint and durationMs is the time it occupied that memory
// (WarmTime on a hit, ColdProcTime on a miss). Capacity misses are never
// priced — they never occupy a container.
func (c *Calculator) CalcInvocation(memMB int, durationMs float64, coldStart bool) InvocationCost {
	if memMB < 0 {
		memMB = 0
	}
	if durationMs < 0 {
		durationMs = 0
	}

	computeCost := float64(memMB) * durationMs * c.pricing.ComputeUnit
	var coldStartCost float64
	if coldStart {
		coldStartCost = c.pricing.ColdStartUnit
	}

	return InvocationCost{
		InvocationCost: c.pricing.InvocationUnit,
		ComputeCost:    computeCost,
		ColdStartCost:  coldStartCost,
		TotalCost:      c.pricing.InvocationUnit + computeCost + coldStartCost,
	}
}

// RunStats is the subset of a finished scheduler run a cost report
// needs. It exists so this package does not import scheduler, keeping
// the dependency direction (scheduler is core, cost is a consumer) one
// way; callers fill it from Scheduler's accessors.
type RunStats struct {
	Kind           string
	Hits           int64
	Misses         int64
	CapacityMisses int64
	MemSize        int
	WarmTime       float64
	ColdProcTime   float64
}

// Summarize prices every kind in stats and returns the aggregate report.
func (c *Calculator) Summarize(stats []RunStats) *RunSummary {
	summary := &RunSummary{Kinds: make([]*KindCostSummary, 0, len(stats))}

	for _, st := range stats {
		var invCost, computeCost, coldCost float64

		if st.Hits > 0 {
			hit := c.CalcInvocation(st.MemSize, st.WarmTime, false)
			invCost += hit.InvocationCost * float64(st.Hits)
			computeCost += hit.ComputeCost * float64(st.Hits)
		}
		if st.Misses > 0 {
			miss := c.CalcInvocation(st.MemSize, st.ColdProcTime, true)
			invCost += miss.InvocationCost * float64(st.Misses)
			computeCost += miss.ComputeCost * float64(st.Misses)
			coldCost += miss.ColdStartCost * float64(st.Misses)
		}

		total := invCost + computeCost + coldCost
		summary.Kinds = append(summary.Kinds, &KindCostSummary{
			Kind:            st.Kind,
			Hits:            st.Hits,
			Misses:          st.Misses,
			CapacityMisses:  st.CapacityMisses,
			InvocationsCost: invCost,
			ComputeCost:     computeCost,
			ColdStartCost:   coldCost,
			TotalCost:       total,
		})
		summary.TotalCost += total
	}
	return summary
}
