package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"fix", "parser", "bug"}, tokenize("Fix parser bug: parser, a BUG"))
	assert.Empty(t, tokenize("a - b"))
	assert.Equal(t, []string{"ab", "été"}, tokenize("é x ab été"))
}

func TestSearchIndex_Ranking(t *testing.T) {
	idx := NewSearchIndex()
	older := &Commit{ID: "01", Message: "fix parser"}
	newer := &Commit{ID: "02", Message: "fix lexer"}
	best := &Commit{ID: "03", Message: "parser cleanup", Manifest: Manifest{"fix.go": NoID}}
	idx.IndexCommit(older)
	idx.IndexCommit(newer)
	idx.IndexCommit(best)

	assert.Equal(t, []ID{"03", "01", "02"}, idx.Search("fix parser", 0))
	assert.Equal(t, []ID{"03"}, idx.Search("fix parser", 1))
	assert.Equal(t, []ID{"03", "02", "01"}, idx.Search("fix", 0))
}

func TestSearchCommits(t *testing.T) {
	r := newTestRepo(t)
	r.Author = "Grace"
	parser := commitFiles(t, r, 1, "rewrite the parser", map[string]string{"parse.go": "x"})

	found, err := r.SearchCommits("parser", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, parser.ID, found[0].ID)
	assert.True(t, r.Search.Built())

	// Commits made after the first search are indexed incrementally.
	lexer := commitFiles(t, r, 2, "lexer tweaks", map[string]string{"lex.go": "y"})
	found, err = r.SearchCommits("grace", 0)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, lexer.ID, found[0].ID)

	found, err = r.SearchCommits("initial", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, InitialMessage, found[0].Message)

	found, err = r.SearchCommits("nothing matches", 0)
	require.NoError(t, err)
	assert.Empty(t, found)
}
