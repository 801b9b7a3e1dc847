package dag

import (
	"fmt"
	"iter"
)

// Ancestors walks first-parent links from start to the root, yielding each
// commit once. Every call starts a fresh single pass.
func (g *Graph) Ancestors(start ID) iter.Seq2[*Commit, error] {
	return func(yield func(*Commit, error) bool) {
		seen := make(map[ID]bool)
		for id := start; id != NoID && !seen[id]; {
			seen[id] = true
			c, err := g.Commit(id)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(c, nil) {
				return
			}
			id = c.Parent()
		}
	}
}

// LogChain returns the first-parent history of start, newest first,
// including start itself.
func (g *Graph) LogChain(start ID) ([]*Commit, error) {
	var commits []*Commit
	for c, err := range g.Ancestors(start) {
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// generations does a BFS over every parent edge from start and returns the
// distance of each reachable commit (start at 0) plus the visiting order.
func (g *Graph) generations(start ID) (map[ID]int, []ID, error) {
	dist := map[ID]int{start: 0}
	order := []ID{start}
	for i := 0; i < len(order); i++ {
		c, err := g.Commit(order[i])
		if err != nil {
			return nil, nil, err
		}
		for _, p := range c.Parents {
			if _, ok := dist[p]; ok {
				continue
			}
			dist[p] = dist[order[i]] + 1
			order = append(order, p)
		}
	}
	return dist, order, nil
}

// IsAncestor reports whether ancestor is reachable from id (or equal to it).
func (g *Graph) IsAncestor(ancestor, id ID) (bool, error) {
	dist, _, err := g.generations(id)
	if err != nil {
		return false, err
	}
	_, ok := dist[ancestor]
	return ok, nil
}

// SplitKind classifies how two branch tips relate.
type SplitKind int

const (
	// SplitDiverged means both tips have commits the other lacks; Base is the merge base.
	SplitDiverged SplitKind = iota
	// SplitIdentical means both tips are the same commit.
	SplitIdentical
	// SplitGivenAncestor means the given tip is an ancestor of the current tip.
	SplitGivenAncestor
	// SplitFastForward means the current tip is an ancestor of the given tip.
	SplitFastForward
)

var splitKindNames = map[SplitKind]string{
	SplitDiverged:      "diverged",
	SplitIdentical:     "identical",
	SplitGivenAncestor: "given-ancestor",
	SplitFastForward:   "fast-forward",
}

func (k SplitKind) String() string {
	if name, ok := splitKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Split is the outcome of a split-point search.
type Split struct {
	Kind SplitKind
	Base ID
}

// FindSplitPoint finds the merge base of the current tip a and the given tip b.
//
// Both tips are expanded breadth-first over all parents. Common ancestors that
// are themselves ancestors of another common ancestor are discarded; of the
// rest, the one closest to both tips (summed generations) wins, and a tie goes
// to the most recently created commit.
func (g *Graph) FindSplitPoint(a, b ID) (Split, error) {
	if a == b {
		return Split{Kind: SplitIdentical, Base: a}, nil
	}
	distA, orderA, err := g.generations(a)
	if err != nil {
		return Split{}, err
	}
	if _, ok := distA[b]; ok {
		return Split{Kind: SplitGivenAncestor, Base: b}, nil
	}
	distB, _, err := g.generations(b)
	if err != nil {
		return Split{}, err
	}
	if _, ok := distB[a]; ok {
		return Split{Kind: SplitFastForward, Base: a}, nil
	}

	var common []ID
	for _, id := range orderA {
		if _, ok := distB[id]; ok {
			common = append(common, id)
		}
	}
	if len(common) == 0 {
		return Split{}, fmt.Errorf("no common ancestor of %s and %s", a.Short(), b.Short())
	}

	dominated := make(map[ID]bool)
	for _, c := range common {
		if dominated[c] {
			continue
		}
		above, _, err := g.generations(c)
		if err != nil {
			return Split{}, err
		}
		for id := range above {
			if id != c {
				dominated[id] = true
			}
		}
	}

	best := NoID
	for _, c := range common {
		if dominated[c] {
			continue
		}
		if best == NoID || g.closer(c, best, distA, distB) {
			best = c
		}
	}
	return Split{Kind: SplitDiverged, Base: best}, nil
}

func (g *Graph) closer(c, best ID, distA, distB map[ID]int) bool {
	dc, db := distA[c]+distB[c], distA[best]+distB[best]
	if dc != db {
		return dc < db
	}
	return g.index[c] > g.index[best]
}
