package dag

import (
	"fmt"
	"maps"
	"os"
	"slices"
)

// Stage is the set of pending changes a commit consumes: file contents to
// add and tracked names to remove. A name is never in both.
type Stage struct {
	path     string
	adds     map[string][]byte
	removals map[string]bool
}

type stageFile struct {
	Adds     map[string][]byte `json:"adds"`
	Removals []string          `json:"removals"`
}

func newStage(path string) *Stage {
	return &Stage{
		path:     path,
		adds:     make(map[string][]byte),
		removals: make(map[string]bool),
	}
}

// loadStage reads the staging index, treating a missing file as empty.
func loadStage(path string) (*Stage, error) {
	s := newStage(path)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read staging area: %w", err)
	}
	var f stageFile
	if err := readJSON(data, &f, "staging area"); err != nil {
		return nil, err
	}
	for name, content := range f.Adds {
		s.adds[name] = content
	}
	for _, name := range f.Removals {
		s.removals[name] = true
	}
	return s, nil
}

// Save writes the staging index to disk.
func (s *Stage) Save() error {
	data, err := CanonicalJSON(stageFile{Adds: s.adds, Removals: s.Removed()})
	if err != nil {
		return fmt.Errorf("serialize staging area: %w", err)
	}
	if err := SafeWrite(s.path, data, 0644); err != nil {
		return fmt.Errorf("write staging area: %w", err)
	}
	return nil
}

// IsEmpty reports whether nothing is staged.
func (s *Stage) IsEmpty() bool {
	return len(s.adds) == 0 && len(s.removals) == 0
}

// Added returns the names staged for addition, sorted.
func (s *Stage) Added() []string { return slices.Sorted(maps.Keys(s.adds)) }

// Removed returns the names staged for removal, sorted.
func (s *Stage) Removed() []string { return slices.Sorted(maps.Keys(s.removals)) }

// Pending returns the staged content for name.
func (s *Stage) Pending(name string) ([]byte, bool) {
	content, ok := s.adds[name]
	return content, ok
}

// IsRemoved reports whether name is staged for removal.
func (s *Stage) IsRemoved(name string) bool { return s.removals[name] }

func (s *Stage) stageAdd(name string, content []byte) {
	delete(s.removals, name)
	s.adds[name] = slices.Clone(content)
}

func (s *Stage) stageRemoval(name string) {
	delete(s.adds, name)
	s.removals[name] = true
}

func (s *Stage) unstage(name string) {
	delete(s.adds, name)
	delete(s.removals, name)
}

// Clear drops every pending change.
func (s *Stage) Clear() {
	clear(s.adds)
	clear(s.removals)
}
