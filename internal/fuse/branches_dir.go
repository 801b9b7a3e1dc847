package fuse

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/systemshift/gitlet/internal/dag"
)

// BranchesDir is /branches/. Each branch is a symlink to its tip under
// /commits/.
type BranchesDir struct {
	fs.Inode
	view *view
}

var _ = (fs.NodeLookuper)((*BranchesDir)(nil))
var _ = (fs.NodeReaddirer)((*BranchesDir)(nil))
var _ = (fs.NodeGetattrer)((*BranchesDir)(nil))

func (d *BranchesDir) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("branches")
	return fs.OK
}

func (d *BranchesDir) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	var names []string
	errno := d.view.with(func(r *dag.Repository) error {
		names = r.Graph.Branches()
		return nil
	})
	if errno != fs.OK {
		return nil, errno
	}
	entries := make([]fuse.DirEntry, len(names))
	for i, name := range names {
		entries[i] = fuse.DirEntry{
			Name: name,
			Mode: syscall.S_IFLNK,
			Ino:  stableIno("branches/" + name),
		}
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (d *BranchesDir) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	var tip dag.ID
	errno := d.view.with(func(r *dag.Repository) error {
		id, ok := r.Graph.Tip(name)
		if !ok {
			return dag.ErrNoSuchBranch
		}
		tip = id
		return nil
	})
	if errno != fs.OK {
		return nil, errno
	}

	// Branches move, so the inode is not cached past this lookup.
	sym := &BranchSymlink{view: d.view, branch: name}
	child := d.NewInode(ctx, sym, fs.StableAttr{
		Mode: syscall.S_IFLNK,
		Ino:  stableIno("branches/" + name + "@" + string(tip)),
	})
	return child, fs.OK
}

// BranchSymlink points to ../commits/{tip}.
type BranchSymlink struct {
	fs.Inode
	view   *view
	branch string
}

var _ = (fs.NodeReadlinker)((*BranchSymlink)(nil))
var _ = (fs.NodeGetattrer)((*BranchSymlink)(nil))

func (s *BranchSymlink) target() ([]byte, syscall.Errno) {
	var target []byte
	errno := s.view.with(func(r *dag.Repository) error {
		id, ok := r.Graph.Tip(s.branch)
		if !ok {
			return dag.ErrNoSuchBranch
		}
		target = []byte("../commits/" + string(id))
		return nil
	})
	return target, errno
}

func (s *BranchSymlink) Readlink(ctx context.Context) ([]byte, syscall.Errno) {
	return s.target()
}

func (s *BranchSymlink) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	target, errno := s.target()
	if errno != fs.OK {
		return errno
	}
	out.Mode = 0777 | syscall.S_IFLNK
	out.Size = uint64(len(target))
	return fs.OK
}
