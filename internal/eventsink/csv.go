// Package eventsink implements the scheduler's passive, append-only
// output channel: a CSV performance log recording one row per hit or
// miss. Capacity misses are data the scheduler tracks internally and
// never reach the sink, matching the external CSV contract.
package eventsink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oriys/cachesim/internal/domain"
)

// Sink receives (kind, time, event) records from the scheduler. Flushing
// and closing are the sink's own responsibility; the scheduler never
// reads back through it except via the separate miss-stats replay below.
type Sink interface {
	Record(kind domain.Kind, time float64, event domain.Outcome) error
	Close() error
}

// CSVSink writes the performance log format external tooling expects:
// header "lambda,time,meta" followed by one row per hit/miss, line
// buffered so a crashed run still leaves a readable partial log.
type CSVSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
}

// LogPath builds the canonical performance-log filename for a run:
// {policy}-{num_funcs}-{mem_capacity}-{run_id}-performancelog.csv under
// dir.
func LogPath(dir, policy string, numFuncs, memCapacity int, runID string) string {
	name := fmt.Sprintf("%s-%d-%d-%s-performancelog.csv", policy, numFuncs, memCapacity, runID)
	return filepath.Join(dir, name)
}

// NewCSVSink creates (or truncates) the file at path and writes the
// header row.
func NewCSVSink(path string) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("eventsink: create log dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("eventsink: create log file: %w", err)
	}
	w := bufio.NewWriter(f)
	if _, err := w.WriteString("lambda,time,meta\n"); err != nil {
		f.Close()
		return nil, fmt.Errorf("eventsink: write header: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("eventsink: flush header: %w", err)
	}
	return &CSVSink{file: f, writer: w}, nil
}

// Record appends one row. Capacity misses must never be passed here;
// callers only invoke it for OutcomeHit and OutcomeMiss.
func (s *CSVSink) Record(kind domain.Kind, time float64, event domain.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.writer, "%s,%s,%s\n", kind, formatTime(time), event); err != nil {
		return fmt.Errorf("eventsink: write row: %w", err)
	}
	return s.writer.Flush()
}

func formatTime(t float64) string {
	if t == float64(int64(t)) {
		return fmt.Sprintf("%d", int64(t))
	}
	return fmt.Sprintf("%g", t)
}

// Close flushes any buffered output and closes the underlying file.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writer.Flush(); err != nil {
		s.file.Close()
		return fmt.Errorf("eventsink: flush on close: %w", err)
	}
	return s.file.Close()
}
