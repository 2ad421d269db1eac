package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Lightweight per-frame profiler. Sections are timed with
//
//	defer profiling.Track("world.Poll")()
//
// and accumulated until the next ResetFrame. Safe for concurrent use, so
// worker goroutines can record into the same frame.

// Stat is the accumulated time and call count of one section.
type Stat struct {
	Name  string
	Total time.Duration
	Calls int
}

var (
	mu    sync.Mutex
	frame = make(map[string]*Stat)
)

// Track returns a stop function that records the elapsed time under name.
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s, ok := frame[name]
		if !ok {
			s = &Stat{Name: name}
			frame[name] = s
		}
		s.Total += d
		s.Calls++
		mu.Unlock()
	}
}

// ResetFrame clears the current totals. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frame)
	mu.Unlock()
}

// Snapshot returns the current totals, slowest first.
func Snapshot() []Stat {
	mu.Lock()
	out := make([]Stat, 0, len(frame))
	for _, s := range frame {
		out = append(out, *s)
	}
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total == out[j].Total {
			return out[i].Name < out[j].Name
		}
		return out[i].Total > out[j].Total
	})
	return out
}

// TopN formats the n slowest sections, e.g. "meshing.Extract:4.2ms(3)".
func TopN(n int) string {
	stats := Snapshot()
	if n > len(stats) {
		n = len(stats)
	}
	parts := make([]string, 0, n)
	for _, s := range stats[:n] {
		parts = append(parts, fmt.Sprintf("%s:%.1fms(%d)", s.Name, float64(s.Total.Microseconds())/1000, s.Calls))
	}
	return strings.Join(parts, ", ")
}
