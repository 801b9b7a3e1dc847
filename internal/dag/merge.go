package dag

import (
	"bytes"
	"fmt"
	"time"
)

// MergeOutcome is the terminal state of a merge that passed its preconditions.
type MergeOutcome int

const (
	MergeAlreadyUpToDate MergeOutcome = iota
	MergeFastForwarded
	MergeMerged
	MergeConflicted
)

var mergeOutcomeMessages = map[MergeOutcome]string{
	MergeAlreadyUpToDate: "Given branch is an ancestor of the current branch.",
	MergeFastForwarded:   "Current branch fast-forwarded.",
	MergeMerged:          "",
	MergeConflicted:      "Encountered a merge conflict.",
}

// String returns the message reported to the user for the outcome.
func (o MergeOutcome) String() string {
	return mergeOutcomeMessages[o]
}

// MergeResult describes what a merge did.
type MergeResult struct {
	Outcome   MergeOutcome
	Split     Split
	Commit    *Commit  // the merge commit, for MergeMerged
	Conflicts []string // files rewritten with conflict markers, sorted
}

// ConflictMarkers renders the content written into a conflicted file.
func ConflictMarkers(current, given []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<<<<<<< HEAD\n")
	buf.Write(current)
	buf.WriteString("=======\n")
	buf.Write(given)
	buf.WriteString(">>>>>>>\n")
	return buf.Bytes()
}

// Merge merges branch into the current branch.
//
// Preconditions are checked in order and reported as errors without touching
// anything. Past them, working-tree writes are not rolled back: a conflicted
// merge leaves marker files and the adds staged so far for the user to
// resolve, and creates no commit.
func (r *Repository) Merge(branch string, now time.Time) (*MergeResult, error) {
	givenTip, ok := r.Graph.Tip(branch)
	if !ok {
		return nil, ErrNoBranchWithName
	}
	if !r.Stage.IsEmpty() {
		return nil, ErrUncommittedChanges
	}
	current := r.Graph.Current()
	if branch == current {
		return nil, ErrMergeWithSelf
	}
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	given, err := r.Graph.Commit(givenTip)
	if err != nil {
		return nil, err
	}
	if err := r.untrackedInTheWay(head, given); err != nil {
		return nil, err
	}

	split, err := r.Graph.FindSplitPoint(head.ID, given.ID)
	if err != nil {
		return nil, err
	}
	res := &MergeResult{Split: split}
	switch split.Kind {
	case SplitIdentical, SplitGivenAncestor:
		res.Outcome = MergeAlreadyUpToDate
		return res, nil
	case SplitFastForward:
		if err := r.materialize(head, given); err != nil {
			return nil, err
		}
		r.Graph.move(current, given.ID, "fast-forward")
		res.Outcome = MergeFastForwarded
		return res, nil
	}

	base, err := r.Graph.Commit(split.Base)
	if err != nil {
		return nil, err
	}
	m := &merger{repo: r, base: base, cur: head, given: given}
	if err := m.run(); err != nil {
		return nil, err
	}
	res.Conflicts = m.conflicts
	if len(m.conflicts) > 0 {
		res.Outcome = MergeConflicted
		return res, nil
	}

	msg := fmt.Sprintf("Merged %s with %s.", current, branch)
	c, err := r.commit(msg, now, []ID{given.ID})
	if err != nil {
		return nil, err
	}
	res.Outcome = MergeMerged
	res.Commit = c
	return res, nil
}

// merger classifies every file against the split (S), current (C) and
// given (G) manifests by blob identity.
type merger struct {
	repo      *Repository
	base      *Commit
	cur       *Commit
	given     *Commit
	conflicts []string
}

func (m *merger) run() error {
	for _, name := range m.base.Manifest.Names() {
		s := m.base.Manifest[name]
		c, inC := m.cur.Manifest[name]
		g, inG := m.given.Manifest[name]
		var err error
		switch {
		case inC && inG:
			switch {
			case c == s && g != s:
				err = m.take(name)
			case c != s && g != s && c != g:
				err = m.conflict(name, c, g)
			}
		case inC && !inG:
			if c == s {
				err = m.repo.Remove(name)
			} else {
				err = m.conflict(name, c, NoID)
			}
		case !inC && inG:
			if g != s {
				err = m.conflict(name, NoID, g)
			}
		}
		if err != nil {
			return err
		}
	}

	for _, name := range m.given.Manifest.Names() {
		if m.base.Tracks(name) {
			continue
		}
		g := m.given.Manifest[name]
		c, inC := m.cur.Manifest[name]
		var err error
		switch {
		case !inC:
			err = m.take(name)
		case c != g:
			err = m.conflict(name, c, g)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// take checks out the given side's version of name and stages it.
func (m *merger) take(name string) error {
	if err := m.repo.writeCommitFile(m.given, name); err != nil {
		return err
	}
	content, err := m.repo.Tree.Read(name)
	if err != nil {
		return err
	}
	m.repo.Stage.stageAdd(name, content)
	return nil
}

// conflict writes both versions into name between markers. A missing side
// (NoID) contributes empty content. The file is not staged.
func (m *merger) conflict(name string, cur, given ID) error {
	curContent, err := m.content(cur)
	if err != nil {
		return err
	}
	givenContent, err := m.content(given)
	if err != nil {
		return err
	}
	if err := m.repo.Tree.Write(name, ConflictMarkers(curContent, givenContent)); err != nil {
		return err
	}
	m.conflicts = append(m.conflicts, name)
	return nil
}

func (m *merger) content(id ID) ([]byte, error) {
	if id == NoID {
		return nil, nil
	}
	return m.repo.Store.Get(id)
}
