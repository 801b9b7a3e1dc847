package fuse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAt(t *testing.T) {
	data := []byte("hello world")

	res := readAt(data, make([]byte, 5), 0)
	buf, status := res.Bytes(nil)
	require.True(t, status.Ok())
	assert.Equal(t, "hello", string(buf))

	res = readAt(data, make([]byte, 64), 6)
	buf, _ = res.Bytes(nil)
	assert.Equal(t, "world", string(buf))

	res = readAt(data, make([]byte, 8), 11)
	buf, _ = res.Bytes(nil)
	assert.Empty(t, buf)
}

func TestStableIno(t *testing.T) {
	assert.Equal(t, stableIno("commits/abc"), stableIno("commits/abc"))
	assert.NotEqual(t, stableIno("commits/abc"), stableIno("commits/abd"))
	assert.Greater(t, stableIno("/"), uint64(1))
}
