package dag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Worktree is the flat working directory next to the repository directory.
// Only regular files directly under the root take part in version control.
type Worktree struct {
	root string
}

// NewWorktree returns a Worktree rooted at dir.
func NewWorktree(dir string) *Worktree {
	return &Worktree{root: dir}
}

func validFileName(name string) bool {
	if name == "" || name == "." || name == ".." || name == RepoDirName {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}

func (w *Worktree) path(name string) string {
	return filepath.Join(w.root, name)
}

// List returns the names of the regular files in the working directory.
func (w *Worktree) List() ([]string, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return nil, fmt.Errorf("list working directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Exists reports whether name is a regular file in the working directory.
func (w *Worktree) Exists(name string) bool {
	if !validFileName(name) {
		return false
	}
	info, err := os.Lstat(w.path(name))
	return err == nil && info.Mode().IsRegular()
}

// Read returns the content of a working file.
func (w *Worktree) Read(name string) ([]byte, error) {
	if !w.Exists(name) {
		return nil, ErrFileNotExist
	}
	data, err := os.ReadFile(w.path(name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Write creates or overwrites a working file.
func (w *Worktree) Write(name string, content []byte) error {
	if !validFileName(name) {
		return fmt.Errorf("write %q: invalid file name", name)
	}
	if err := SafeWrite(w.path(name), content, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Remove deletes a working file if it exists.
func (w *Worktree) Remove(name string) error {
	if !validFileName(name) {
		return nil
	}
	if err := removeIfExists(w.path(name)); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
