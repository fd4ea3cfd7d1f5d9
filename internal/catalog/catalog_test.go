package catalog

import (
	"strings"
	"testing"
)

const sampleCatalog = `
functions:
  - kind: A
    mem_size: 256
    run_time: 1000
    warm_time: 100
  - kind: B
    mem_size: 128
    run_time: 500
    warm_time: 50
`

func TestParseCatalog(t *testing.T) {
	specs, err := ParseCatalog(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog() error: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("len(specs) = %d, want 2", len(specs))
	}
	a, ok := specs["A"]
	if !ok {
		t.Fatal("missing kind A")
	}
	if a.MemSize != 256 || a.RunTime != 1000 || a.WarmTime != 100 {
		t.Errorf("spec A = %+v, unexpected fields", a)
	}
}

func TestParseCatalogRejectsInvalidSpec(t *testing.T) {
	_, err := ParseCatalog(strings.NewReader(`
functions:
  - kind: bad
    mem_size: 0
    run_time: 1
    warm_time: 0
`))
	if err == nil {
		t.Fatal("expected error for non-positive mem_size")
	}
}

func TestParseCatalogRejectsDuplicateKind(t *testing.T) {
	_, err := ParseCatalog(strings.NewReader(`
functions:
  - kind: A
    mem_size: 128
    run_time: 1
    warm_time: 0
  - kind: A
    mem_size: 256
    run_time: 1
    warm_time: 0
`))
	if err == nil {
		t.Fatal("expected error for duplicate kind")
	}
}

func TestParseTrace(t *testing.T) {
	specs, err := ParseCatalog(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog() error: %v", err)
	}

	events, err := ParseTrace(strings.NewReader(`
invocations:
  - kind: A
    time: 0
  - kind: B
    time: 10
  - kind: A
    time: 20
`), specs)
	if err != nil {
		t.Fatalf("ParseTrace() error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	if events[0].Spec.Kind != "A" || events[0].Time != 0 {
		t.Errorf("events[0] = %+v, unexpected", events[0])
	}
	if events[1].Spec.Kind != "B" || events[1].Time != 10 {
		t.Errorf("events[1] = %+v, unexpected", events[1])
	}
}

func TestParseTraceRejectsUnknownKind(t *testing.T) {
	specs, err := ParseCatalog(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog() error: %v", err)
	}

	_, err = ParseTrace(strings.NewReader(`
invocations:
  - kind: ghost
    time: 0
`), specs)
	if err == nil {
		t.Fatal("expected error for unknown kind reference")
	}
}

func TestKindsIsSorted(t *testing.T) {
	specs, err := ParseCatalog(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog() error: %v", err)
	}
	kinds := Kinds(specs)
	if len(kinds) != 2 || kinds[0] != "A" || kinds[1] != "B" {
		t.Errorf("Kinds() = %v, want [A B]", kinds)
	}
}
