package dag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_RecordsBranchMoves(t *testing.T) {
	r := newTestRepo(t)
	root := r.Graph.Head()
	c := commitFiles(t, r, 1, "first", map[string]string{"a.txt": "a"})
	require.NoError(t, r.CreateBranch("feature"))
	require.NoError(t, r.CheckoutBranch("feature"))
	require.NoError(t, r.Save())

	entries, err := r.Journal.Entries("")
	require.NoError(t, err)
	var actions []string
	for _, e := range entries {
		actions = append(actions, e.Branch+":"+e.Action)
	}
	assert.Equal(t, []string{"master:init", "master:commit", "feature:branch", "feature:checkout"}, actions)
	assert.Equal(t, root, entries[1].From)
	assert.Equal(t, c.ID, entries[1].To)

	master, err := r.Journal.Entries(DefaultBranch)
	require.NoError(t, err)
	assert.Len(t, master, 2)
}

func TestJournal_NotWrittenWithoutSave(t *testing.T) {
	r := newTestRepo(t)
	commitFiles(t, r, 1, "first", map[string]string{"a.txt": "a"})

	entries, err := r.Journal.Entries("")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJournal_SkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j := NewJournal(path)

	entries, err := j.Entries("")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, j.Append(JournalEntry{Branch: "master", Action: "commit"}))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("{torn\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, j.Append(JournalEntry{Branch: "master", Action: "reset"}))

	entries, err = j.Entries("master")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "reset", entries[1].Action)
}
