// Package prof collects named wall-clock measurements from the commit and
// update paths. Call sites use
//
//	defer prof.Track(time.Now(), "pcs.Commit")
//
// and tools read the records back with SnapshotAndReset or Summarize.
package prof

import (
	"sort"
	"sync"
	"time"
)

// Entry represents a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

// Stat aggregates the entries sharing one label.
type Stat struct {
	Label string
	Count int
	Total time.Duration
	Max   time.Duration
}

// Mean is Total/Count.
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

var (
	mu      sync.Mutex
	record  []Entry
	enabled = true
)

// Track logs the duration since start with the given name.
func Track(start time.Time, name string) {
	elapsed := time.Since(start)
	mu.Lock()
	if enabled {
		record = append(record, Entry{Label: name, Dur: elapsed})
	}
	mu.Unlock()
}

// SetEnabled turns recording on or off. Long sweeps switch it off so the
// record does not grow with every point update.
func SetEnabled(on bool) {
	mu.Lock()
	enabled = on
	mu.Unlock()
}

// SnapshotAndReset returns the collected timing entries and clears them.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(record))
	copy(out, record)
	record = nil
	return out
}

// Summarize folds entries by label, sorted by total time descending.
func Summarize(entries []Entry) []Stat {
	idx := make(map[string]int)
	var out []Stat
	for _, e := range entries {
		i, ok := idx[e.Label]
		if !ok {
			i = len(out)
			idx[e.Label] = i
			out = append(out, Stat{Label: e.Label})
		}
		s := &out[i]
		s.Count++
		s.Total += e.Dur
		if e.Dur > s.Max {
			s.Max = e.Dur
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Total > out[b].Total })
	return out
}
