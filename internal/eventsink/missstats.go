package eventsink

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// KindStats is the hit/miss tally for one kind, as recovered by
// replaying a performance log.
type KindStats struct {
	Hits   int
	Misses int
}

// MissStats replays the CSV performance log at path and returns a
// mapping of kind to its observed hit/miss counts. It is a read-only,
// side-effect-free accessor: capacity misses never appear in the log in
// the first place, so they are absent here too (callers wanting those
// read the scheduler's own CapacityMisses map).
func MissStats(path string) (map[string]KindStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eventsink: open log: %w", err)
	}
	defer f.Close()

	stats := make(map[string]KindStats)
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			continue // header row
		}
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			return nil, fmt.Errorf("eventsink: malformed row %q", line)
		}
		kind, _, meta := fields[0], fields[1], fields[2]

		s := stats[kind]
		switch meta {
		case "hit":
			s.Hits++
		case "miss":
			s.Misses++
		default:
			return nil, fmt.Errorf("eventsink: unknown event kind %q in row %q", meta, line)
		}
		stats[kind] = s
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("eventsink: scan log: %w", err)
	}
	return stats, nil
}
