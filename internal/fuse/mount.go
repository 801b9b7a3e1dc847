package fuse

import (
	"hash/fnv"
	"sync"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	gofuse "github.com/hanwen/go-fuse/v2/fuse"
	"github.com/systemshift/gitlet/internal/dag"
)

// view serializes filesystem callbacks over a read-only repository and
// reloads its state before each one, so commands run alongside the mount
// show up immediately.
type view struct {
	mu   sync.Mutex
	repo *dag.Repository
}

func (v *view) with(fn func(r *dag.Repository) error) syscall.Errno {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.repo.Refresh(); err != nil {
		return syscall.EIO
	}
	if err := fn(v.repo); err != nil {
		if dag.KindOf(err) == dag.KindNotFound {
			return syscall.ENOENT
		}
		return syscall.EIO
	}
	return fs.OK
}

// MountFS mounts a read-only view of repo's history at mountpoint.
// Returns the server (call server.Wait() to block, server.Unmount() to stop).
func MountFS(mountpoint string, repo *dag.Repository, debug bool) (*gofuse.Server, error) {
	root := &RootNode{view: &view{repo: repo}}

	opts := &fs.Options{
		MountOptions: gofuse.MountOptions{
			FsName:        "gitlet",
			Name:          "gitlet",
			DisableXAttrs: true,
			Debug:         debug,
		},
	}

	server, err := fs.Mount(mountpoint, root, opts)
	if err != nil {
		return nil, err
	}
	return server, nil
}

// readAt slices data for a read of len(dest) bytes at off.
func readAt(data, dest []byte, off int64) gofuse.ReadResult {
	if off >= int64(len(data)) {
		return gofuse.ReadResultData(nil)
	}
	end := off + int64(len(dest))
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	return gofuse.ReadResultData(data[off:end])
}

// stableIno derives an inode number from a path inside the mount. 1 belongs
// to the root.
func stableIno(path string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(path))
	if ino := h.Sum64(); ino > 1 {
		return ino
	}
	return 2
}
