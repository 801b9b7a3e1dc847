package dag

import (
	"sort"
	"sync"
	"time"
)

// CoChangeIndex derives co-change signals from the history of HEAD. Files
// that changed in the same commit, or in commits within the same time
// window, are considered co-changed.
type CoChangeIndex struct {
	mu     sync.RWMutex
	pairs  map[string]map[string]int // fileA → fileB → count
	window time.Duration             // temporal grouping window; 0 groups per commit
}

// changeEvent is a single commit's changed files with timestamp, used for windowing.
type changeEvent struct {
	ts      time.Time
	changed []string
}

// NewCoChangeIndex creates an empty CoChangeIndex.
func NewCoChangeIndex(window time.Duration) *CoChangeIndex {
	return &CoChangeIndex{
		pairs:  make(map[string]map[string]int),
		window: window,
	}
}

// Build walks the first-parent chain from start, diffs every commit against
// its first parent, then counts co-changes per time window.
func (idx *CoChangeIndex) Build(g *Graph, start ID) error {
	var events []changeEvent
	for c, err := range g.Ancestors(start) {
		if err != nil {
			return err
		}
		parent := Manifest{}
		if p := c.Parent(); p != NoID {
			pc, err := g.Commit(p)
			if err != nil {
				return err
			}
			parent = pc.Manifest
		}
		changed := diffManifests(parent, c.Manifest)
		if len(changed) == 0 {
			continue
		}
		ts, err := time.ParseInLocation(TimeFormat, c.Timestamp, time.Local)
		if err != nil {
			return err
		}
		events = append(events, changeEvent{ts: ts, changed: changed})
	}

	// Oldest first for windowing
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].ts.Before(events[j].ts)
	})

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.window <= 0 {
		for _, evt := range events {
			idx.flushWindow([]changeEvent{evt})
		}
		return nil
	}

	var windowEvents []changeEvent
	var windowStart time.Time
	for _, evt := range events {
		if !windowStart.IsZero() && evt.ts.Sub(windowStart) > idx.window {
			idx.flushWindow(windowEvents)
			windowEvents = nil
			windowStart = evt.ts
		}
		if windowStart.IsZero() {
			windowStart = evt.ts
		}
		windowEvents = append(windowEvents, evt)
	}
	idx.flushWindow(windowEvents)
	return nil
}

// flushWindow collects all unique changed files across events in the window,
// then increments pair counts.
func (idx *CoChangeIndex) flushWindow(events []changeEvent) {
	unique := make(map[string]bool)
	for _, evt := range events {
		for _, name := range evt.changed {
			unique[name] = true
		}
	}
	if len(unique) < 2 {
		return
	}
	names := make([]string, 0, len(unique))
	for name := range unique {
		names = append(names, name)
	}

	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := names[i], names[j]
			if idx.pairs[a] == nil {
				idx.pairs[a] = make(map[string]int)
			}
			if idx.pairs[b] == nil {
				idx.pairs[b] = make(map[string]int)
			}
			idx.pairs[a][b]++
			idx.pairs[b][a]++
		}
	}
}

// diffManifests returns the file names whose blob was added, removed or
// replaced between parent and child.
func diffManifests(parent, child Manifest) []string {
	var changed []string
	for name, id := range child {
		if prev, ok := parent[name]; !ok || prev != id {
			changed = append(changed, name)
		}
	}
	for name := range parent {
		if _, ok := child[name]; !ok {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}

// Related returns the files most often changed together with name, sorted by
// count then name.
func (idx *CoChangeIndex) Related(name string, limit int) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	peers := idx.pairs[name]
	if len(peers) == 0 {
		return nil
	}

	type scored struct {
		name  string
		count int
	}
	var results []scored
	for peer, count := range peers {
		results = append(results, scored{peer, count})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].count != results[j].count {
			return results[i].count > results[j].count
		}
		return results[i].name < results[j].name
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.name
	}
	return names
}

// Related returns the files that most often changed together with name in
// the history of HEAD.
func (r *Repository) Related(name string, window time.Duration, limit int) ([]string, error) {
	idx := NewCoChangeIndex(window)
	if err := idx.Build(r.Graph, r.Graph.Head()); err != nil {
		return nil, err
	}
	return idx.Related(name, limit), nil
}
