package dag

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
)

// DefaultBranch is the branch every repository starts on.
const DefaultBranch = "master"

// Graph holds the commit registry, branch pointers and the current branch.
// It is persisted as a single canonical JSON file (commitTree).
type Graph struct {
	path     string
	store    *ObjectStore
	journal  *Journal
	clock    func() time.Time
	current  string
	branches map[string]ID
	registry []ID
	index    map[ID]int
	cache    map[ID]*Commit
	pending  []JournalEntry
}

// graphFile is the on-disk shape of the commit graph.
type graphFile struct {
	Current  string        `json:"current"`
	Head     ID            `json:"head"`
	Branches map[string]ID `json:"branches"`
	Registry []ID          `json:"registry"`
}

func newGraph(path string, store *ObjectStore, journal *Journal) *Graph {
	return &Graph{
		path:     path,
		store:    store,
		journal:  journal,
		clock:    time.Now,
		branches: make(map[string]ID),
		index:    make(map[ID]int),
		cache:    make(map[ID]*Commit),
	}
}

// initGraph creates a graph whose only commit is root, on DefaultBranch.
func initGraph(path string, store *ObjectStore, journal *Journal, root *Commit) (*Graph, error) {
	if err := storeCommit(store, root); err != nil {
		return nil, err
	}
	g := newGraph(path, store, journal)
	g.current = DefaultBranch
	g.register(root)
	g.move(DefaultBranch, root.ID, "init")
	return g, nil
}

// loadGraph reads the commit graph from path.
func loadGraph(path string, store *ObjectStore, journal *Journal) (*Graph, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("read commit tree: %w", err)
	}
	var f graphFile
	if err := readJSON(data, &f, "commit tree"); err != nil {
		return nil, err
	}
	g := newGraph(path, store, journal)
	g.current = f.Current
	for name, id := range f.Branches {
		g.branches[name] = id
	}
	for _, id := range f.Registry {
		g.index[id] = len(g.registry)
		g.registry = append(g.registry, id)
	}
	head, ok := g.branches[g.current]
	if !ok {
		return nil, fmt.Errorf("commit tree: current branch %q has no pointer", g.current)
	}
	if f.Head != NoID && f.Head != head {
		return nil, fmt.Errorf("commit tree: HEAD %s disagrees with %s at %s", f.Head, g.current, head)
	}
	return g, nil
}

// Save writes the graph back to disk, then flushes queued journal entries.
func (g *Graph) Save() error {
	f := graphFile{
		Current:  g.current,
		Head:     g.Head(),
		Branches: g.branches,
		Registry: g.registry,
	}
	data, err := CanonicalJSON(f)
	if err != nil {
		return fmt.Errorf("serialize commit tree: %w", err)
	}
	if err := SafeWrite(g.path, data, 0644); err != nil {
		return fmt.Errorf("write commit tree: %w", err)
	}
	if len(g.pending) > 0 && g.journal != nil {
		if err := g.journal.Append(g.pending...); err != nil {
			return err
		}
	}
	g.pending = nil
	return nil
}

func (g *Graph) register(c *Commit) {
	g.index[c.ID] = len(g.registry)
	g.registry = append(g.registry, c.ID)
	g.cache[c.ID] = c
}

// move points branch at id and queues a journal entry.
func (g *Graph) move(branch string, id ID, action string) {
	from := g.branches[branch]
	g.branches[branch] = id
	g.pending = append(g.pending, JournalEntry{
		Time:   g.clock().Format(TimeFormat),
		Branch: branch,
		From:   from,
		To:     id,
		Action: action,
	})
}

// Current returns the name of the current branch.
func (g *Graph) Current() string { return g.current }

// Head returns the ID the current branch points to.
func (g *Graph) Head() ID { return g.branches[g.current] }

// HeadCommit loads the commit at HEAD.
func (g *Graph) HeadCommit() (*Commit, error) { return g.Commit(g.Head()) }

// Commit loads a commit by full ID. Commits are immutable, so they are cached.
func (g *Graph) Commit(id ID) (*Commit, error) {
	if c, ok := g.cache[id]; ok {
		return c, nil
	}
	if _, ok := g.index[id]; !ok {
		return nil, ErrNoSuchCommit
	}
	c, err := loadCommit(g.store, id)
	if err != nil {
		return nil, err
	}
	g.cache[id] = c
	return c, nil
}

// Has reports whether id is a registered commit.
func (g *Graph) Has(id ID) bool {
	_, ok := g.index[id]
	return ok
}

// Append records a freshly stored commit and advances the current branch to it.
func (g *Graph) Append(c *Commit) {
	g.register(c)
	action := "commit"
	if c.IsMerge() {
		action = "merge"
	}
	g.move(g.current, c.ID, action)
}

// Registry returns every commit ID in creation order.
func (g *Graph) Registry() []ID { return slices.Clone(g.registry) }

// Branches returns the branch names in sorted order.
func (g *Graph) Branches() []string {
	names := make([]string, 0, len(g.branches))
	for name := range g.branches {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Tip returns the commit a branch points to.
func (g *Graph) Tip(branch string) (ID, bool) {
	id, ok := g.branches[branch]
	return id, ok
}

func validBranchName(name string) bool {
	if name == "" || name == "." || name == ".." || strings.HasPrefix(name, "-") {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}

// CreateBranch adds a branch pointing at HEAD. It does not switch to it.
func (g *Graph) CreateBranch(name string) error {
	if !validBranchName(name) {
		return ErrInvalidBranchName
	}
	if _, ok := g.branches[name]; ok {
		return ErrBranchExists
	}
	g.move(name, g.Head(), "branch")
	return nil
}

// RemoveBranch deletes a branch pointer. Commits stay in the registry.
func (g *Graph) RemoveBranch(name string) error {
	if _, ok := g.branches[name]; !ok {
		return ErrNoBranchWithName
	}
	if name == g.current {
		return ErrRemoveCurrentBranch
	}
	g.pending = append(g.pending, JournalEntry{
		Time:   g.clock().Format(TimeFormat),
		Branch: name,
		From:   g.branches[name],
		Action: "rm-branch",
	})
	delete(g.branches, name)
	return nil
}

// switchTo makes name the current branch.
func (g *Graph) switchTo(name string) {
	g.current = name
	g.pending = append(g.pending, JournalEntry{
		Time:   g.clock().Format(TimeFormat),
		Branch: name,
		To:     g.branches[name],
		Action: "checkout",
	})
}

// Resolve expands a full ID, an unambiguous ID prefix, or a CID string to a
// registered commit ID.
func (g *Graph) Resolve(ref string) (ID, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return NoID, ErrNoSuchCommit
	}
	if _, ok := g.index[ID(ref)]; ok {
		return ID(ref), nil
	}
	if !isHex(ref) {
		if id, err := IDFromCID(ref); err == nil {
			if _, ok := g.index[id]; ok {
				return id, nil
			}
		}
		return NoID, ErrNoSuchCommit
	}
	match := NoID
	for _, id := range g.registry {
		if !strings.HasPrefix(string(id), ref) {
			continue
		}
		if match != NoID {
			return NoID, ErrAmbiguousCommit
		}
		match = id
	}
	if match == NoID {
		return NoID, ErrNoSuchCommit
	}
	return match, nil
}

func isHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// FindByMessage returns, in creation order, every commit whose message is
// exactly text.
func (g *Graph) FindByMessage(text string) ([]ID, error) {
	var ids []ID
	for _, id := range g.registry {
		c, err := g.Commit(id)
		if err != nil {
			return nil, err
		}
		if c.Message == text {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoCommitWithMessage
	}
	return ids, nil
}
