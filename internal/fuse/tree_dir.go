package fuse

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/systemshift/gitlet/internal/dag"
)

// CommitsDir is /commits/. Lists every commit by ID; lookup also accepts a
// unique ID prefix.
type CommitsDir struct {
	fs.Inode
	view *view
}

var _ = (fs.NodeLookuper)((*CommitsDir)(nil))
var _ = (fs.NodeReaddirer)((*CommitsDir)(nil))
var _ = (fs.NodeGetattrer)((*CommitsDir)(nil))

func (d *CommitsDir) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("commits")
	return fs.OK
}

func (d *CommitsDir) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	var ids []dag.ID
	errno := d.view.with(func(r *dag.Repository) error {
		ids = r.Graph.Registry()
		return nil
	})
	if errno != fs.OK {
		return nil, errno
	}
	entries := make([]fuse.DirEntry, len(ids))
	for i, id := range ids {
		entries[i] = fuse.DirEntry{
			Name: string(id),
			Mode: syscall.S_IFDIR,
			Ino:  stableIno("commits/" + string(id)),
		}
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (d *CommitsDir) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	var c *dag.Commit
	errno := d.view.with(func(r *dag.Repository) error {
		var err error
		c, err = r.Show(name)
		return err
	})
	if errno != fs.OK {
		return nil, errno
	}
	dir := &TreeDir{view: d.view, commit: c}
	child := d.NewInode(ctx, dir, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  stableIno("commits/" + string(c.ID)),
	})
	return child, fs.OK
}

// TreeDir is /commits/{id}/: the files tracked by one commit. Commits never
// change, so the listing needs no refresh.
type TreeDir struct {
	fs.Inode
	view   *view
	commit *dag.Commit
}

var _ = (fs.NodeLookuper)((*TreeDir)(nil))
var _ = (fs.NodeReaddirer)((*TreeDir)(nil))
var _ = (fs.NodeGetattrer)((*TreeDir)(nil))

func (d *TreeDir) path(name string) string {
	return "commits/" + string(d.commit.ID) + "/" + name
}

func (d *TreeDir) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("commits/" + string(d.commit.ID))
	return fs.OK
}

func (d *TreeDir) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	names := d.commit.Manifest.Names()
	entries := make([]fuse.DirEntry, len(names))
	for i, name := range names {
		entries[i] = fuse.DirEntry{
			Name: name,
			Mode: syscall.S_IFREG,
			Ino:  stableIno(d.path(name)),
		}
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (d *TreeDir) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	id, ok := d.commit.Manifest[name]
	if !ok {
		return nil, syscall.ENOENT
	}
	f := &BlobFile{view: d.view, blob: id, path: d.path(name)}
	child := d.NewInode(ctx, f, fs.StableAttr{
		Mode: syscall.S_IFREG,
		Ino:  stableIno(d.path(name)),
	})
	return child, fs.OK
}

// BlobFile exposes one stored blob as a read-only file.
type BlobFile struct {
	fs.Inode
	view *view
	blob dag.ID
	path string
}

var _ = (fs.NodeGetattrer)((*BlobFile)(nil))
var _ = (fs.NodeReader)((*BlobFile)(nil))
var _ = (fs.NodeOpener)((*BlobFile)(nil))

func (f *BlobFile) content() ([]byte, syscall.Errno) {
	var data []byte
	errno := f.view.with(func(r *dag.Repository) error {
		var err error
		data, err = r.Blob(f.blob)
		return err
	})
	return data, errno
}

func (f *BlobFile) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	data, errno := f.content()
	if errno != fs.OK {
		return errno
	}
	out.Mode = 0444
	out.Size = uint64(len(data))
	out.Ino = stableIno(f.path)
	return fs.OK
}

func (f *BlobFile) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return nil, 0, syscall.EROFS
	}
	return nil, fuse.FOPEN_KEEP_CACHE, fs.OK
}

func (f *BlobFile) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	data, errno := f.content()
	if errno != fs.OK {
		return nil, errno
	}
	return readAt(data, dest, off), fs.OK
}
