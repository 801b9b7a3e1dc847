package dag

// untrackedInTheWay fails if a working file is not tracked by HEAD but would
// be overwritten by target.
func (r *Repository) untrackedInTheWay(head, target *Commit) error {
	names, err := r.Tree.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		if !head.Tracks(name) && target.Tracks(name) {
			return ErrUntrackedInTheWay
		}
	}
	return nil
}

// writeCommitFile overwrites the working file name with its content in c.
func (r *Repository) writeCommitFile(c *Commit, name string) error {
	id, ok := c.Manifest[name]
	if !ok {
		return ErrFileNotInCommit
	}
	content, err := r.Store.Get(id)
	if err != nil {
		return err
	}
	return r.Tree.Write(name, content)
}

// materialize makes the working tree match to, deleting files only from
// tracked. Callers run the untracked-file check first.
func (r *Repository) materialize(from, to *Commit) error {
	for _, name := range from.Manifest.Names() {
		if !to.Tracks(name) {
			if err := r.Tree.Remove(name); err != nil {
				return err
			}
		}
	}
	for _, name := range to.Manifest.Names() {
		if err := r.writeCommitFile(to, name); err != nil {
			return err
		}
	}
	return nil
}

// CheckoutBranch switches to branch, rewriting the working tree to its tip
// and clearing the staging index.
func (r *Repository) CheckoutBranch(branch string) error {
	tip, ok := r.Graph.Tip(branch)
	if !ok {
		return ErrNoSuchBranch
	}
	if branch == r.Graph.Current() {
		return ErrNoNeedToCheckout
	}
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	target, err := r.Graph.Commit(tip)
	if err != nil {
		return err
	}
	if err := r.untrackedInTheWay(head, target); err != nil {
		return err
	}
	if err := r.materialize(head, target); err != nil {
		return err
	}
	r.Stage.Clear()
	r.Graph.switchTo(branch)
	return nil
}

// CheckoutFile restores one file from a commit into the working tree. An
// empty ref means HEAD. The staging index is left alone.
func (r *Repository) CheckoutFile(name, ref string) error {
	id := r.Graph.Head()
	if ref != "" {
		resolved, err := r.Graph.Resolve(ref)
		if err != nil {
			return err
		}
		id = resolved
	}
	c, err := r.Graph.Commit(id)
	if err != nil {
		return err
	}
	return r.writeCommitFile(c, name)
}

// Reset moves the current branch to ref and writes every file of that commit
// into the working tree. Every target file is checked against the
// untracked-file rule before anything is written. Both staged sets are
// cleared.
func (r *Repository) Reset(ref string) (*Commit, error) {
	id, err := r.Graph.Resolve(ref)
	if err != nil {
		return nil, err
	}
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	target, err := r.Graph.Commit(id)
	if err != nil {
		return nil, err
	}
	if err := r.untrackedInTheWay(head, target); err != nil {
		return nil, err
	}
	for _, name := range target.Manifest.Names() {
		if err := r.writeCommitFile(target, name); err != nil {
			return nil, err
		}
	}
	r.Graph.move(r.Graph.Current(), target.ID, "reset")
	r.Stage.Clear()
	return target, nil
}
