package dag

import (
	"fmt"
	"time"
)

// Add stages the working file name. If HEAD already tracks identical content
// nothing is staged, and any pending change for the name is dropped.
func (r *Repository) Add(name string) error {
	content, err := r.Tree.Read(name)
	if err != nil {
		return err
	}
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	if tracked, ok := head.Manifest[name]; ok {
		id, err := ComputeID(content)
		if err != nil {
			return err
		}
		if id == tracked {
			r.Stage.unstage(name)
			return nil
		}
	}
	r.Stage.stageAdd(name, content)
	return nil
}

// Remove unstages a pending add and, if HEAD tracks name, deletes the working
// file and stages the removal.
func (r *Repository) Remove(name string) error {
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	_, pending := r.Stage.Pending(name)
	tracked := head.Tracks(name)
	if !tracked && !pending {
		return ErrNoReasonToRemove
	}
	if tracked {
		if err := r.Tree.Remove(name); err != nil {
			return err
		}
		r.Stage.stageRemoval(name)
		return nil
	}
	r.Stage.unstage(name)
	return nil
}

// Commit snapshots HEAD's manifest plus the staged changes as a new commit on
// the current branch and clears the staging index.
func (r *Repository) Commit(message string, now time.Time) (*Commit, error) {
	return r.commit(message, now, nil)
}

// commit builds the new manifest from a clone of HEAD's, so the parent's
// snapshot is never touched. extra parents follow HEAD in the parent list;
// a commit with extra parents is recorded even when nothing is staged.
func (r *Repository) commit(message string, now time.Time, extra []ID) (*Commit, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if r.Stage.IsEmpty() && len(extra) == 0 {
		return nil, ErrNothingToCommit
	}
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}

	manifest := head.Manifest.Clone()
	for _, name := range r.Stage.Removed() {
		delete(manifest, name)
	}
	for _, name := range r.Stage.Added() {
		content, _ := r.Stage.Pending(name)
		id, err := r.Store.Put(content)
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", name, err)
		}
		manifest[name] = id
	}

	parents := append([]ID{head.ID}, extra...)
	c, err := NewCommit(parents, message, manifest, now)
	if err != nil {
		return nil, err
	}
	if r.Graph.Has(c.ID) {
		return nil, fmt.Errorf("commit %s already exists: same parent, message and second", c.ID.Short())
	}
	c.Author = r.Author
	if err := storeCommit(r.Store, c); err != nil {
		return nil, err
	}
	r.Graph.Append(c)
	r.Stage.Clear()
	if r.Search.Built() {
		r.Search.IndexCommit(c)
	}
	return c, nil
}

// CreateBranch adds a branch at HEAD.
func (r *Repository) CreateBranch(name string) error {
	return r.Graph.CreateBranch(name)
}

// RemoveBranch deletes a branch pointer.
func (r *Repository) RemoveBranch(name string) error {
	return r.Graph.RemoveBranch(name)
}
