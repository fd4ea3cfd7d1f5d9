package cost

import (
	"math"
	"testing"
)

func TestCalcInvocationWarmStart(t *testing.T) {
	calc := NewDefaultCalculator()

	result := calc.CalcInvocation(128, 500, false)

	if result.InvocationCost != DefaultPricing.InvocationUnit {
		t.Errorf("expected invocation cost %v, got %v", DefaultPricing.InvocationUnit, result.InvocationCost)
	}
	if result.ColdStartCost != 0 {
		t.Errorf("expected zero cold start cost for warm start, got %v", result.ColdStartCost)
	}
	if result.TotalCost <= 0 {
		t.Error("expected positive total cost")
	}
	if result.TotalCost != result.InvocationCost+result.ComputeCost {
		t.Error("total cost should equal invocation + compute for warm starts")
	}
}

func TestCalcInvocationColdStart(t *testing.T) {
	calc := NewDefaultCalculator()

	result := calc.CalcInvocation(256, 1000, true)

	if result.ColdStartCost != DefaultPricing.ColdStartUnit {
		t.Errorf("expected cold start cost %v, got %v", DefaultPricing.ColdStartUnit, result.ColdStartCost)
	}
	if result.TotalCost != result.InvocationCost+result.ComputeCost+result.ColdStartCost {
		t.Error("total cost should equal invocation + compute + cold start")
	}
}

func TestCalcInvocationScalesWithMemory(t *testing.T) {
	calc := NewDefaultCalculator()

	small := calc.CalcInvocation(128, 1000, false)
	large := calc.CalcInvocation(1024, 1000, false)

	if large.ComputeCost <= small.ComputeCost {
		t.Error("higher memory should result in higher compute cost")
	}

	ratio := large.ComputeCost / small.ComputeCost
	expected := 1024.0 / 128.0
	if math.Abs(ratio-expected) > 0.01 {
		t.Errorf("compute cost should scale linearly with memory, got ratio %v, expected %v", ratio, expected)
	}
}

func TestCalcInvocationScalesWithDuration(t *testing.T) {
	calc := NewDefaultCalculator()

	short := calc.CalcInvocation(128, 100, false)
	long := calc.CalcInvocation(128, 1000, false)

	if long.ComputeCost <= short.ComputeCost {
		t.Error("longer duration should result in higher compute cost")
	}
}

func TestAggregateFunctionCost(t *testing.T) {
	calc := NewDefaultCalculator()
	summary := calc.Summarize([]RunStats{
		{Kind: "A", Hits: 90, Misses: 10, MemSize: 256, WarmTime: 100, ColdProcTime: 3200},
	})

	if len(summary.Kinds) != 1 {
		t.Fatalf("expected 1 kind summary, got %d", len(summary.Kinds))
	}
	got := summary.Kinds[0]
	if got.Kind != "A" {
		t.Error("unexpected kind")
	}
	if got.Hits != 90 || got.Misses != 10 {
		t.Errorf("expected 90 hits / 10 misses, got %d/%d", got.Hits, got.Misses)
	}
	if got.TotalCost <= 0 {
		t.Error("expected positive total cost")
	}
	if got.ColdStartCost <= 0 {
		t.Error("expected positive cold start cost")
	}
	if math.Abs(summary.TotalCost-got.TotalCost) > 1e-12 {
		t.Error("run total should equal the sum of its kinds' totals")
	}
}

func TestSummarizeZeroInvocations(t *testing.T) {
	calc := NewDefaultCalculator()
	summary := calc.Summarize([]RunStats{
		{Kind: "A", MemSize: 256},
	})

	if summary.TotalCost != 0 {
		t.Errorf("expected zero total cost, got %v", summary.TotalCost)
	}
	if summary.Kinds[0].TotalCost != 0 {
		t.Errorf("expected zero kind cost, got %v", summary.Kinds[0].TotalCost)
	}
}

func TestCustomPricing(t *testing.T) {
	pricing := Pricing{
		InvocationUnit: 0.001,
		ComputeUnit:    0.01,
		ColdStartUnit:  0.005,
	}
	calc := NewCalculator(pricing)

	result := calc.CalcInvocation(1024, 1000, true)

	if result.InvocationCost != 0.001 {
		t.Errorf("expected invocation cost 0.001, got %v", result.InvocationCost)
	}
	if result.ColdStartCost != 0.005 {
		t.Errorf("expected cold start cost 0.005, got %v", result.ColdStartCost)
	}

	got := calc.Pricing()
	if got.InvocationUnit != pricing.InvocationUnit {
		t.Error("Pricing should return the configured pricing")
	}
}
