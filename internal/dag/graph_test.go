package dag

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graphCommit stores and registers a commit with the given parents without
// moving any branch.
func graphCommit(t *testing.T, r *Repository, n int, parents ...ID) ID {
	t.Helper()
	c, err := NewCommit(parents, fmt.Sprintf("c%d", n), Manifest{}, ts(n))
	require.NoError(t, err)
	require.NoError(t, storeCommit(r.Store, c))
	r.Graph.register(c)
	return c.ID
}

func TestAncestors_FirstParentChain(t *testing.T) {
	r := newTestRepo(t)
	root := r.Graph.Head()
	a := graphCommit(t, r, 1, root)
	side := graphCommit(t, r, 2, root)
	m := graphCommit(t, r, 3, a, side)

	commits, err := r.Graph.LogChain(m)
	require.NoError(t, err)
	var ids []ID
	for _, c := range commits {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []ID{m, a, root}, ids)

	// Early break stops the walk.
	count := 0
	for _, err := range r.Graph.Ancestors(m) {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)

	ok, err := r.Graph.IsAncestor(side, m)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.Graph.IsAncestor(m, side)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindSplitPoint_Linear(t *testing.T) {
	r := newTestRepo(t)
	root := r.Graph.Head()
	a := graphCommit(t, r, 1, root)
	b := graphCommit(t, r, 2, a)

	split, err := r.Graph.FindSplitPoint(b, b)
	require.NoError(t, err)
	assert.Equal(t, Split{Kind: SplitIdentical, Base: b}, split)

	split, err = r.Graph.FindSplitPoint(b, a)
	require.NoError(t, err)
	assert.Equal(t, Split{Kind: SplitGivenAncestor, Base: a}, split)

	split, err = r.Graph.FindSplitPoint(a, b)
	require.NoError(t, err)
	assert.Equal(t, Split{Kind: SplitFastForward, Base: a}, split)
}

func TestFindSplitPoint_DivergedSymmetric(t *testing.T) {
	r := newTestRepo(t)
	root := r.Graph.Head()
	a := graphCommit(t, r, 1, root)
	b := graphCommit(t, r, 2, a)
	b2 := graphCommit(t, r, 3, b)
	c := graphCommit(t, r, 4, a)

	ab, err := r.Graph.FindSplitPoint(b2, c)
	require.NoError(t, err)
	ba, err := r.Graph.FindSplitPoint(c, b2)
	require.NoError(t, err)
	assert.Equal(t, Split{Kind: SplitDiverged, Base: a}, ab)
	assert.Equal(t, ab, ba)
}

func TestFindSplitPoint_FollowsMergeParents(t *testing.T) {
	r := newTestRepo(t)
	root := r.Graph.Head()
	a := graphCommit(t, r, 1, root)
	b := graphCommit(t, r, 2, a)
	c := graphCommit(t, r, 3, a)
	m := graphCommit(t, r, 4, b, c) // c merged into b's line
	d := graphCommit(t, r, 5, c)

	// A first-parent walk from m would only see a; the DAG search finds c.
	split, err := r.Graph.FindSplitPoint(m, d)
	require.NoError(t, err)
	assert.Equal(t, Split{Kind: SplitDiverged, Base: c}, split)
}

func TestFindSplitPoint_CrissCrossTieBreak(t *testing.T) {
	r := newTestRepo(t)
	root := r.Graph.Head()
	a := graphCommit(t, r, 1, root)
	b1 := graphCommit(t, r, 2, a)
	c1 := graphCommit(t, r, 3, a)
	b2 := graphCommit(t, r, 4, b1, c1)
	c2 := graphCommit(t, r, 5, c1, b1)

	// b1 and c1 are equally close; the newer one wins from either side.
	split, err := r.Graph.FindSplitPoint(b2, c2)
	require.NoError(t, err)
	assert.Equal(t, Split{Kind: SplitDiverged, Base: c1}, split)
	split, err = r.Graph.FindSplitPoint(c2, b2)
	require.NoError(t, err)
	assert.Equal(t, c1, split.Base)
}

func TestResolve(t *testing.T) {
	r := newTestRepo(t)
	root := r.Graph.Head()

	id, err := r.Graph.Resolve(string(root))
	require.NoError(t, err)
	assert.Equal(t, root, id)

	id, err = r.Graph.Resolve(root.Short())
	require.NoError(t, err)
	assert.Equal(t, root, id)

	mb, err := root.Multibase()
	require.NoError(t, err)
	id, err = r.Graph.Resolve(mb)
	require.NoError(t, err)
	assert.Equal(t, root, id)

	_, err = r.Graph.Resolve("")
	assert.ErrorIs(t, err, ErrNoSuchCommit)

	// Prefixes only: a substring from the middle never matches.
	_, err = r.Graph.Resolve(string(root[5:15]))
	assert.ErrorIs(t, err, ErrNoSuchCommit)

	// With 17 commits two must share a first hex digit.
	byFirst := map[byte]bool{string(root)[0]: true}
	var shared byte
	for n := 1; shared == 0; n++ {
		require.LessOrEqual(t, n, 16)
		c := graphCommit(t, r, n, root)
		if byFirst[c[0]] {
			shared = c[0]
		}
		byFirst[c[0]] = true
	}
	_, err = r.Graph.Resolve(string([]byte{shared}))
	assert.ErrorIs(t, err, ErrAmbiguousCommit)
}

func TestBranches(t *testing.T) {
	r := newTestRepo(t)

	require.NoError(t, r.CreateBranch("zeta"))
	require.NoError(t, r.CreateBranch("alpha"))
	assert.Equal(t, []string{"alpha", DefaultBranch, "zeta"}, r.Graph.Branches())

	assert.ErrorIs(t, r.CreateBranch("alpha"), ErrBranchExists)
	assert.ErrorIs(t, r.CreateBranch("a/b"), ErrInvalidBranchName)
	assert.ErrorIs(t, r.CreateBranch(""), ErrInvalidBranchName)

	assert.ErrorIs(t, r.RemoveBranch(DefaultBranch), ErrRemoveCurrentBranch)
	assert.ErrorIs(t, r.RemoveBranch("nope"), ErrNoBranchWithName)
	require.NoError(t, r.RemoveBranch("zeta"))
	assert.Equal(t, []string{"alpha", DefaultBranch}, r.Graph.Branches())
}

func TestFindByMessage(t *testing.T) {
	r := newTestRepo(t)
	first := commitFiles(t, r, 1, "same", map[string]string{"a.txt": "1"})
	second := commitFiles(t, r, 2, "same", map[string]string{"a.txt": "2"})
	commitFiles(t, r, 3, "different", map[string]string{"a.txt": "3"})

	ids, err := r.Find("same")
	require.NoError(t, err)
	assert.Equal(t, []ID{first.ID, second.ID}, ids)

	_, err = r.Find("missing")
	assert.ErrorIs(t, err, ErrNoCommitWithMessage)
}
