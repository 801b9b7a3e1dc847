package dag

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// TimeFormat is the layout of commit timestamps (yyyy-MM-dd HH:mm:ss).
const TimeFormat = "2006-01-02 15:04:05"

// Manifest maps tracked filenames to blob IDs.
type Manifest map[string]ID

// Clone returns an independent copy; commits never share a manifest map.
func (m Manifest) Clone() Manifest {
	out := make(Manifest, len(m))
	maps.Copy(out, m)
	return out
}

// Names returns the tracked filenames in sorted order.
func (m Manifest) Names() []string {
	return slices.Sorted(maps.Keys(m))
}

// Commit is an immutable snapshot record. Serialized via CanonicalJSON and
// stored in the ObjectStore under its ID.
type Commit struct {
	ID        ID       `json:"id"`
	Parents   []ID     `json:"parents,omitempty"` // first parent is the branch the commit was made on
	Message   string   `json:"message"`
	Timestamp string   `json:"timestamp"`
	Author    string   `json:"author,omitempty"`
	Manifest  Manifest `json:"manifest"`
}

// NewCommit builds a commit and derives its ID from the parents, message and
// timestamp. The manifest is cloned; references are not validated here.
func NewCommit(parents []ID, message string, manifest Manifest, ts time.Time) (*Commit, error) {
	stamp := ts.Format(TimeFormat)
	id, err := commitID(parents, message, stamp)
	if err != nil {
		return nil, err
	}
	return &Commit{
		ID:        id,
		Parents:   slices.Clone(parents),
		Message:   message,
		Timestamp: stamp,
		Manifest:  manifest.Clone(),
	}, nil
}

// commitID digests parents ∥ message ∥ timestamp. A single-parent commit
// hashes exactly parent_id ∥ message ∥ timestamp; the root hashes the empty
// parent string.
func commitID(parents []ID, message, stamp string) (ID, error) {
	var b strings.Builder
	for _, p := range parents {
		b.WriteString(string(p))
	}
	b.WriteString(message)
	b.WriteString(stamp)
	return ComputeID([]byte(b.String()))
}

// Parent returns the first parent, or NoID for the root commit.
func (c *Commit) Parent() ID {
	if len(c.Parents) == 0 {
		return NoID
	}
	return c.Parents[0]
}

// IsMerge reports whether the commit joins two lines of history.
func (c *Commit) IsMerge() bool { return len(c.Parents) > 1 }

// Tracks reports whether name is in the commit's manifest.
func (c *Commit) Tracks(name string) bool {
	_, ok := c.Manifest[name]
	return ok
}

// storeCommit writes c into the object store.
func storeCommit(store *ObjectStore, c *Commit) error {
	data, err := CanonicalJSON(c)
	if err != nil {
		return fmt.Errorf("serialize commit: %w", err)
	}
	if err := store.PutRecord(c.ID, data); err != nil {
		return fmt.Errorf("store commit: %w", err)
	}
	return nil
}

// loadCommit reads and unmarshals a commit by ID.
func loadCommit(store *ObjectStore, id ID) (*Commit, error) {
	data, err := store.Get(id)
	if err != nil {
		return nil, err
	}
	var c Commit
	if err := readJSON(data, &c, "commit"); err != nil {
		return nil, err
	}
	if c.Manifest == nil {
		c.Manifest = Manifest{}
	}
	return &c, nil
}
