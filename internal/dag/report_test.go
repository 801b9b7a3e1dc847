package dag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalLog_NewestFirst(t *testing.T) {
	r := newTestRepo(t)
	root := r.Graph.Head()
	a := commitFiles(t, r, 1, "a", map[string]string{"a.txt": "a"})
	require.NoError(t, r.CreateBranch("side"))
	require.NoError(t, r.CheckoutBranch("side"))
	b := commitFiles(t, r, 2, "b", map[string]string{"b.txt": "b"})
	require.NoError(t, r.CheckoutBranch(DefaultBranch))

	all, err := r.GlobalLog()
	require.NoError(t, err)
	var ids []ID
	for _, c := range all {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []ID{b.ID, a.ID, root}, ids)

	log, err := r.Log()
	require.NoError(t, err)
	assert.Len(t, log, 2)
}

func TestShow(t *testing.T) {
	r := newTestRepo(t)
	c := commitFiles(t, r, 1, "first", map[string]string{"a.txt": "a"})

	got, err := r.Show(c.ID.Short())
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = r.Show("zzzz")
	assert.ErrorIs(t, err, ErrNoSuchCommit)
}

func TestStatus(t *testing.T) {
	r := newTestRepo(t)
	commitFiles(t, r, 1, "base", map[string]string{
		"clean.txt":    "clean",
		"edited.txt":   "v1",
		"deleted.txt":  "here",
		"removed.txt":  "tracked",
		"restaged.txt": "v1",
	})
	require.NoError(t, r.CreateBranch("other"))

	writeWork(t, r, "edited.txt", "v2")
	require.NoError(t, r.Tree.Remove("deleted.txt"))
	require.NoError(t, r.Remove("removed.txt"))
	writeWork(t, r, "restaged.txt", "v2")
	require.NoError(t, r.Add("restaged.txt"))
	writeWork(t, r, "restaged.txt", "v3")
	writeWork(t, r, "fresh.txt", "new")
	require.NoError(t, r.Add("fresh.txt"))
	writeWork(t, r, "gone.txt", "staged then deleted")
	require.NoError(t, r.Add("gone.txt"))
	require.NoError(t, r.Tree.Remove("gone.txt"))
	writeWork(t, r, "stray.txt", "untracked")

	st, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultBranch, "other"}, st.Branches)
	assert.Equal(t, []string{"fresh.txt", "gone.txt", "restaged.txt"}, st.Staged)
	assert.Equal(t, []string{"removed.txt"}, st.Removed)
	assert.Equal(t, []Change{
		{Name: "deleted.txt", Deleted: true},
		{Name: "edited.txt"},
		{Name: "gone.txt", Deleted: true},
		{Name: "restaged.txt"},
	}, st.Modified)
	assert.Equal(t, []string{"stray.txt"}, st.Untracked)

	var buf bytes.Buffer
	require.NoError(t, FormatStatus(&buf, st))
	want := "=== Branches ===\n*master\nother\n\n" +
		"=== Staged Files ===\nfresh.txt\ngone.txt\nrestaged.txt\n\n" +
		"=== Removed Files ===\nremoved.txt\n\n" +
		"=== Modifications Not Staged For Commit ===\n" +
		"deleted.txt (deleted)\nedited.txt (modified)\ngone.txt (deleted)\nrestaged.txt (modified)\n\n" +
		"=== Untracked Files ===\nstray.txt\n\n"
	assert.Equal(t, want, buf.String())
}

func TestStatus_Clean(t *testing.T) {
	r := newTestRepo(t)

	st, err := r.Status()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, FormatStatus(&buf, st))
	assert.Equal(t, "=== Branches ===\n*master\n\n=== Staged Files ===\n\n=== Removed Files ===\n\n"+
		"=== Modifications Not Staged For Commit ===\n\n=== Untracked Files ===\n\n", buf.String())
}
