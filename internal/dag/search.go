package dag

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// SearchIndex is an in-memory inverted index over commit messages, authors
// and tracked file names.
type SearchIndex struct {
	mu    sync.RWMutex
	built bool
	index map[string]map[ID]bool // term -> set of commit IDs
	order map[ID]int             // indexing sequence, used to break score ties
}

// NewSearchIndex creates an empty SearchIndex.
func NewSearchIndex() *SearchIndex {
	return &SearchIndex{
		index: make(map[string]map[ID]bool),
		order: make(map[ID]int),
	}
}

// tokenize splits text into lowercase terms.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool)
	var result []string
	for _, w := range words {
		if utf8.RuneCountInString(w) < 2 {
			continue
		}
		if !seen[w] {
			seen[w] = true
			result = append(result, w)
		}
	}
	return result
}

// IndexCommit adds a commit's message, author and file names to the index.
func (s *SearchIndex) IndexCommit(c *Commit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := []string{c.Message, c.Author}
	parts = append(parts, c.Manifest.Names()...)

	for _, term := range tokenize(strings.Join(parts, " ")) {
		if s.index[term] == nil {
			s.index[term] = make(map[ID]bool)
		}
		s.index[term][c.ID] = true
	}
	if _, ok := s.order[c.ID]; !ok {
		s.order[c.ID] = len(s.order)
	}
}

// Search returns commit IDs ranked by the number of query terms they match.
// Ties go to the most recently indexed commit.
func (s *SearchIndex) Search(query string, limit int) []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	scores := make(map[ID]int)
	for _, term := range terms {
		for id := range s.index[term] {
			scores[id]++
		}
	}

	type scored struct {
		id    ID
		score int
	}
	var results []scored
	for id, score := range scores {
		results = append(results, scored{id, score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return s.order[results[i].id] > s.order[results[j].id]
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	ids := make([]ID, len(results))
	for i, r := range results {
		ids[i] = r.id
	}
	return ids
}

// Built reports whether the index covers the whole registry.
func (s *SearchIndex) Built() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.built
}

// SearchCommits runs a full-text query over every registered commit, building
// the index on first use.
func (r *Repository) SearchCommits(query string, limit int) ([]*Commit, error) {
	if !r.Search.Built() {
		for _, id := range r.Graph.Registry() {
			c, err := r.Graph.Commit(id)
			if err != nil {
				return nil, err
			}
			r.Search.IndexCommit(c)
		}
		r.Search.mu.Lock()
		r.Search.built = true
		r.Search.mu.Unlock()
	}
	var out []*Commit
	for _, id := range r.Search.Search(query, limit) {
		c, err := r.Graph.Commit(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
