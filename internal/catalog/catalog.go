// Package catalog loads the two YAML-described inputs a simulation run
// needs: a catalog of FunctionSpecs (the population of kinds that can
// appear in a trace) and the trace itself, an ordered sequence of
// (kind, time) invocations. Loading and validating these files is
// ambient plumbing around the simulator core, not part of it — the
// core only ever sees the decoded domain.FunctionSpec and
// domain.InvocationEvent values this package produces.
package catalog

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/oriys/cachesim/internal/domain"
	"gopkg.in/yaml.v3"
)

// specEntry is the on-disk shape of one catalog entry.
type specEntry struct {
	Kind     string  `yaml:"kind"`
	MemSize  int     `yaml:"mem_size"`
	RunTime  float64 `yaml:"run_time"`
	WarmTime float64 `yaml:"warm_time"`
}

// traceEntry is the on-disk shape of one trace row.
type traceEntry struct {
	Kind string  `yaml:"kind"`
	Time float64 `yaml:"time"`
}

// LoadCatalog reads a YAML document listing function specs and returns
// them keyed by kind. Duplicate kinds in the file are an error: the
// catalog is the one place kind identity is defined.
func LoadCatalog(path string) (map[domain.Kind]domain.FunctionSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

// ParseCatalog decodes a catalog from r.
func ParseCatalog(r io.Reader) (map[domain.Kind]domain.FunctionSpec, error) {
	var entries struct {
		Functions []specEntry `yaml:"functions"`
	}
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	out := make(map[domain.Kind]domain.FunctionSpec, len(entries.Functions))
	for _, e := range entries.Functions {
		spec := domain.FunctionSpec{
			Kind:     domain.Kind(e.Kind),
			MemSize:  e.MemSize,
			RunTime:  e.RunTime,
			WarmTime: e.WarmTime,
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if _, exists := out[spec.Kind]; exists {
			return nil, fmt.Errorf("catalog: duplicate kind %q", spec.Kind)
		}
		out[spec.Kind] = spec
	}
	return out, nil
}

// LoadTrace reads a YAML document listing (kind, time) rows, resolves
// each kind against catalog, and returns the events in file order. It
// does not sort or deduplicate — a malformed (non-monotonic) trace is
// surfaced to the caller rather than silently repaired, since the
// scheduler itself rejects time moving backward.
func LoadTrace(path string, catalog map[domain.Kind]domain.FunctionSpec) ([]domain.InvocationEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()
	return ParseTrace(f, catalog)
}

// ParseTrace decodes a trace from r.
func ParseTrace(r io.Reader, catalog map[domain.Kind]domain.FunctionSpec) ([]domain.InvocationEvent, error) {
	var rows struct {
		Invocations []traceEntry `yaml:"invocations"`
	}
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("catalog: decode trace: %w", err)
	}

	events := make([]domain.InvocationEvent, 0, len(rows.Invocations))
	for _, row := range rows.Invocations {
		spec, ok := catalog[domain.Kind(row.Kind)]
		if !ok {
			return nil, fmt.Errorf("catalog: trace references unknown kind %q", row.Kind)
		}
		events = append(events, domain.InvocationEvent{Spec: spec, Time: row.Time})
	}
	return events, nil
}

// Kinds returns the catalog's kinds in sorted order, useful for
// deterministic CLI output and tests.
func Kinds(catalog map[domain.Kind]domain.FunctionSpec) []domain.Kind {
	kinds := make([]domain.Kind, 0, len(catalog))
	for k := range catalog {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
