package dag

import (
	"bufio"
	"fmt"
	"io"
	"slices"
)

// Log returns the first-parent history of HEAD, newest first.
func (r *Repository) Log() ([]*Commit, error) {
	return r.Graph.LogChain(r.Graph.Head())
}

// GlobalLog returns every commit ever made, most recently created first.
func (r *Repository) GlobalLog() ([]*Commit, error) {
	reg := r.Graph.Registry()
	commits := make([]*Commit, 0, len(reg))
	for _, id := range slices.Backward(reg) {
		c, err := r.Graph.Commit(id)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// Find returns the IDs of every commit whose message is exactly message.
func (r *Repository) Find(message string) ([]ID, error) {
	return r.Graph.FindByMessage(message)
}

// Show resolves ref and returns the commit it names.
func (r *Repository) Show(ref string) (*Commit, error) {
	id, err := r.Graph.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return r.Graph.Commit(id)
}

// FormatLog writes commits in log format.
func FormatLog(w io.Writer, commits []*Commit) error {
	bw := bufio.NewWriter(w)
	for _, c := range commits {
		fmt.Fprintf(bw, "===\nCommit %s\n%s\n%s\n\n", c.ID, c.Timestamp, c.Message)
	}
	return bw.Flush()
}

// Change is a tracked file whose working copy disagrees with what would be
// committed.
type Change struct {
	Name    string
	Deleted bool
}

func (c Change) String() string {
	if c.Deleted {
		return c.Name + " (deleted)"
	}
	return c.Name + " (modified)"
}

// Status is a snapshot of the branch list, the staging index and the working
// tree relative to HEAD.
type Status struct {
	Current   string
	Branches  []string
	Staged    []string
	Removed   []string
	Modified  []Change
	Untracked []string
}

// Status compares HEAD, the staging index and the working tree.
func (r *Repository) Status() (*Status, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	files, err := r.Tree.List()
	if err != nil {
		return nil, err
	}
	s := &Status{
		Current:  r.Graph.Current(),
		Branches: r.Graph.Branches(),
		Staged:   r.Stage.Added(),
		Removed:  r.Stage.Removed(),
	}

	present := make(map[string]bool, len(files))
	for _, name := range files {
		present[name] = true
	}

	// Tracked or staged names whose working copy is stale or gone.
	candidates := head.Manifest.Clone()
	for _, name := range s.Staged {
		candidates[name] = NoID
	}
	for _, name := range candidates.Names() {
		if r.Stage.IsRemoved(name) {
			continue
		}
		if !present[name] {
			s.Modified = append(s.Modified, Change{Name: name, Deleted: true})
			continue
		}
		content, err := r.Tree.Read(name)
		if err != nil {
			return nil, err
		}
		want, err := r.expected(head, name)
		if err != nil {
			return nil, err
		}
		got, err := ComputeID(content)
		if err != nil {
			return nil, err
		}
		if got != want {
			s.Modified = append(s.Modified, Change{Name: name})
		}
	}

	for _, name := range files {
		_, staged := r.Stage.Pending(name)
		if staged {
			continue
		}
		if !head.Tracks(name) || r.Stage.IsRemoved(name) {
			s.Untracked = append(s.Untracked, name)
		}
	}
	slices.Sort(s.Untracked)
	return s, nil
}

// expected returns the ID the next commit would record for name.
func (r *Repository) expected(head *Commit, name string) (ID, error) {
	if content, ok := r.Stage.Pending(name); ok {
		return ComputeID(content)
	}
	return head.Manifest[name], nil
}

// FormatStatus writes s in the fixed five-section layout.
func FormatStatus(w io.Writer, s *Status) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "=== Branches ===")
	for _, b := range s.Branches {
		if b == s.Current {
			fmt.Fprint(bw, "*")
		}
		fmt.Fprintln(bw, b)
	}
	section := func(title string, lines []string) {
		fmt.Fprintf(bw, "\n=== %s ===\n", title)
		for _, l := range lines {
			fmt.Fprintln(bw, l)
		}
	}
	section("Staged Files", s.Staged)
	section("Removed Files", s.Removed)
	modified := make([]string, len(s.Modified))
	for i, c := range s.Modified {
		modified[i] = c.String()
	}
	section("Modifications Not Staged For Commit", modified)
	section("Untracked Files", s.Untracked)
	fmt.Fprintln(bw)
	return bw.Flush()
}
