package fuse

import (
	"context"
	"fmt"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/systemshift/gitlet/internal/dag"
)

// RootNode is the mountpoint directory. Contains "HEAD", "branches/",
// "commits/" and "log/".
type RootNode struct {
	fs.Inode
	view *view
}

var _ = (fs.NodeOnAdder)((*RootNode)(nil))
var _ = (fs.NodeGetattrer)((*RootNode)(nil))

func (r *RootNode) OnAdd(ctx context.Context) {
	head := &InfoFile{view: r.view, path: "HEAD", render: renderHead}
	headInode := r.NewPersistentInode(ctx, head, fs.StableAttr{
		Mode: syscall.S_IFREG,
		Ino:  stableIno("HEAD"),
	})
	r.AddChild("HEAD", headInode, true)

	branchesDir := &BranchesDir{view: r.view}
	branchesInode := r.NewPersistentInode(ctx, branchesDir, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  stableIno("branches"),
	})
	r.AddChild("branches", branchesInode, true)

	commitsDir := &CommitsDir{view: r.view}
	commitsInode := r.NewPersistentInode(ctx, commitsDir, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  stableIno("commits"),
	})
	r.AddChild("commits", commitsInode, true)

	logDir := &LogDir{view: r.view}
	logInode := r.NewPersistentInode(ctx, logDir, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  stableIno("log"),
	})
	r.AddChild("log", logInode, true)
}

func (r *RootNode) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("/")
	return fs.OK
}

func renderHead(repo *dag.Repository) ([]byte, error) {
	return []byte(fmt.Sprintf("%s %s\n", repo.Graph.Current(), repo.Graph.Head())), nil
}

// InfoFile is a small read-only file whose content is rendered from the
// repository on every access.
type InfoFile struct {
	fs.Inode
	view   *view
	path   string
	render func(*dag.Repository) ([]byte, error)
}

var _ = (fs.NodeGetattrer)((*InfoFile)(nil))
var _ = (fs.NodeReader)((*InfoFile)(nil))
var _ = (fs.NodeOpener)((*InfoFile)(nil))

func (f *InfoFile) bytes() ([]byte, syscall.Errno) {
	var data []byte
	errno := f.view.with(func(r *dag.Repository) error {
		var err error
		data, err = f.render(r)
		return err
	})
	return data, errno
}

func (f *InfoFile) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	data, errno := f.bytes()
	if errno != fs.OK {
		return errno
	}
	out.Mode = 0444
	out.Size = uint64(len(data))
	out.Ino = stableIno(f.path)
	return fs.OK
}

func (f *InfoFile) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return nil, 0, syscall.EROFS
	}
	return nil, fuse.FOPEN_DIRECT_IO, fs.OK
}

func (f *InfoFile) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	data, errno := f.bytes()
	if errno != fs.OK {
		return nil, errno
	}
	return readAt(data, dest, off), fs.OK
}
