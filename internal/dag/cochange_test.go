package dag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffManifests(t *testing.T) {
	parent := Manifest{"same": "01", "edited": "02", "dropped": "03"}
	child := Manifest{"same": "01", "edited": "04", "added": "05"}
	assert.Equal(t, []string{"added", "dropped", "edited"}, diffManifests(parent, child))
	assert.Empty(t, diffManifests(child, child))
}

func TestRelated_PerCommit(t *testing.T) {
	r := newTestRepo(t)
	commitFiles(t, r, 1, "one", map[string]string{"a.go": "1", "b.go": "1"})
	commitFiles(t, r, 2, "two", map[string]string{"a.go": "2", "c.go": "2"})
	commitFiles(t, r, 100, "three", map[string]string{"d.go": "3"})
	commitFiles(t, r, 200, "four", map[string]string{"a.go": "4", "b.go": "4"})

	related, err := r.Related("a.go", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.go", "c.go"}, related)

	related, err = r.Related("a.go", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.go"}, related)

	related, err = r.Related("b.go", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go"}, related)

	related, err = r.Related("d.go", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestRelated_Window(t *testing.T) {
	r := newTestRepo(t)
	commitFiles(t, r, 1, "one", map[string]string{"a.go": "1", "b.go": "1"})
	commitFiles(t, r, 2, "two", map[string]string{"c.go": "2"})
	commitFiles(t, r, 100, "three", map[string]string{"d.go": "3"})

	related, err := r.Related("c.go", 10*time.Second, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, related)

	related, err = r.Related("d.go", 10*time.Second, 0)
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestRelated_FollowsHeadOnly(t *testing.T) {
	r := newTestRepo(t)
	commitFiles(t, r, 1, "base", map[string]string{"a.go": "1"})
	require.NoError(t, r.CreateBranch("side"))
	require.NoError(t, r.CheckoutBranch("side"))
	commitFiles(t, r, 2, "side", map[string]string{"a.go": "2", "x.go": "2"})
	require.NoError(t, r.CheckoutBranch(DefaultBranch))

	related, err := r.Related("a.go", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, related)
}
