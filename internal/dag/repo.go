package dag

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RepoDirName is the hidden directory holding all repository state.
const RepoDirName = ".gitlet"

// InitialMessage is the message of the root commit created by Init.
const InitialMessage = "initial commit"

// Repository is the top-level facade over the object store, commit graph,
// staging index and working tree. A command opens it, mutates it in memory,
// calls Save, then Close.
type Repository struct {
	root     string
	Store    *ObjectStore
	Graph    *Graph
	Stage    *Stage
	Tree     *Worktree
	Journal  *Journal
	Search   *SearchIndex
	Author   string           // stamped on new commits; informational only
	Now      func() time.Time // clock for commit timestamps
	lock     *repoLock
	readOnly bool
}

// Dir returns the path of the .gitlet directory.
func (r *Repository) Dir() string {
	return filepath.Join(r.root, RepoDirName)
}

// Root returns the working-tree root.
func (r *Repository) Root() string { return r.root }

func (r *Repository) file(name string) string {
	return filepath.Join(r.root, RepoDirName, name)
}

// Init creates a repository in root with a single "initial commit" on master,
// stamped with now.
func Init(root string, now time.Time) (*Repository, error) {
	dir := filepath.Join(root, RepoDirName)
	if _, err := os.Stat(dir); err == nil {
		return nil, ErrAlreadyExists
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create dir %s: %w", dir, err)
	}

	r := &Repository{root: root, Now: time.Now}
	lock, err := acquireLock(r.file("lock"))
	if err != nil {
		return nil, err
	}
	r.lock = lock

	if err := r.openParts(); err != nil {
		r.Close()
		return nil, err
	}
	rootCommit, err := NewCommit(nil, InitialMessage, Manifest{}, now)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.Graph, err = initGraph(r.file("commitTree"), r.Store, r.Journal, rootCommit)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.Graph.clock = func() time.Time { return now }
	r.Stage = newStage(r.file("stagingArea"))
	if err := r.Save(); err != nil {
		r.Close()
		return nil, err
	}
	r.Graph.clock = r.clock
	return r, nil
}

// Open loads the repository at root and takes the exclusive repository lock.
func Open(root string) (*Repository, error) {
	return open(root, false)
}

// OpenReadOnly loads the repository without locking it. Save is refused.
func OpenReadOnly(root string) (*Repository, error) {
	return open(root, true)
}

func open(root string, readOnly bool) (*Repository, error) {
	if info, err := os.Stat(filepath.Join(root, RepoDirName)); err != nil || !info.IsDir() {
		return nil, ErrNotInitialized
	}
	r := &Repository{root: root, Now: time.Now, readOnly: readOnly}
	if !readOnly {
		lock, err := acquireLock(r.file("lock"))
		if err != nil {
			return nil, err
		}
		r.lock = lock
	}
	if err := r.openParts(); err != nil {
		r.Close()
		return nil, err
	}
	if err := r.loadState(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) openParts() error {
	store, err := NewObjectStore(r.file("objects"))
	if err != nil {
		return err
	}
	r.Store = store
	r.Journal = NewJournal(r.file("journal.jsonl"))
	r.Tree = NewWorktree(r.root)
	r.Search = NewSearchIndex()
	return nil
}

func (r *Repository) loadState() error {
	graph, err := loadGraph(r.file("commitTree"), r.Store, r.Journal)
	if err != nil {
		return err
	}
	graph.clock = r.clock
	stage, err := loadStage(r.file("stagingArea"))
	if err != nil {
		return err
	}
	r.Graph = graph
	r.Stage = stage
	r.Search = NewSearchIndex()
	return nil
}

// Refresh reloads the commit graph and staging index from disk, dropping
// unsaved in-memory changes. Read-only views use it to follow other commands.
func (r *Repository) Refresh() error {
	return r.loadState()
}

func (r *Repository) clock() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Save writes the commit graph and staging index back to disk.
func (r *Repository) Save() error {
	if r.readOnly {
		return fmt.Errorf("save: repository opened read-only")
	}
	if err := r.Graph.Save(); err != nil {
		return err
	}
	return r.Stage.Save()
}

// Close releases the repository lock. Unsaved changes are discarded.
func (r *Repository) Close() error {
	err := r.lock.release()
	r.lock = nil
	return err
}

// HeadCommit returns the commit the current branch points to.
func (r *Repository) HeadCommit() (*Commit, error) {
	return r.Graph.HeadCommit()
}

// Blob returns the content of a blob by ID.
func (r *Repository) Blob(id ID) ([]byte, error) {
	return r.Store.Get(id)
}
