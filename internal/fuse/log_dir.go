package fuse

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/systemshift/gitlet/internal/dag"
)

const maxLogEntries = 64

// LogDir exposes the history of HEAD as files in the FUSE tree.
// Layout: log/HEAD (commit ID), log/0 (newest commit JSON), log/1, ...
type LogDir struct {
	fs.Inode
	view *view
}

var _ = (fs.NodeLookuper)((*LogDir)(nil))
var _ = (fs.NodeReaddirer)((*LogDir)(nil))
var _ = (fs.NodeGetattrer)((*LogDir)(nil))

func (d *LogDir) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("log")
	return fs.OK
}

func (d *LogDir) chain() ([]*dag.Commit, syscall.Errno) {
	var commits []*dag.Commit
	errno := d.view.with(func(r *dag.Repository) error {
		var err error
		commits, err = r.Log()
		return err
	})
	if len(commits) > maxLogEntries {
		commits = commits[:maxLogEntries]
	}
	return commits, errno
}

func (d *LogDir) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	commits, errno := d.chain()
	if errno != fs.OK {
		return nil, errno
	}
	entries := []fuse.DirEntry{
		{Name: "HEAD", Mode: syscall.S_IFREG, Ino: stableIno("log/HEAD")},
	}
	for i, c := range commits {
		entries = append(entries, fuse.DirEntry{
			Name: strconv.Itoa(i),
			Mode: syscall.S_IFREG,
			Ino:  stableIno("log/" + string(c.ID)),
		})
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (d *LogDir) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	if name == "HEAD" {
		f := &InfoFile{view: d.view, path: "log/HEAD", render: func(r *dag.Repository) ([]byte, error) {
			return []byte(string(r.Graph.Head()) + "\n"), nil
		}}
		child := d.NewInode(ctx, f, fs.StableAttr{
			Mode: syscall.S_IFREG,
			Ino:  stableIno("log/HEAD"),
		})
		return child, fs.OK
	}

	idx, err := strconv.Atoi(name)
	if err != nil || idx < 0 || idx >= maxLogEntries {
		return nil, syscall.ENOENT
	}
	commits, errno := d.chain()
	if errno != fs.OK {
		return nil, errno
	}
	if idx >= len(commits) {
		return nil, syscall.ENOENT
	}

	// Positions shift with every commit, so the inode is keyed by commit ID.
	f := &LogEntryFile{commit: commits[idx]}
	child := d.NewInode(ctx, f, fs.StableAttr{
		Mode: syscall.S_IFREG,
		Ino:  stableIno("log/" + string(commits[idx].ID)),
	})
	return child, fs.OK
}

// LogEntryFile returns indented JSON for a single commit.
type LogEntryFile struct {
	fs.Inode
	commit *dag.Commit
}

var _ = (fs.NodeGetattrer)((*LogEntryFile)(nil))
var _ = (fs.NodeReader)((*LogEntryFile)(nil))
var _ = (fs.NodeOpener)((*LogEntryFile)(nil))

func (f *LogEntryFile) commitBytes() []byte {
	data, err := json.MarshalIndent(f.commit, "", "  ")
	if err != nil {
		return []byte(fmt.Sprintf("{\"error\": %q}\n", err))
	}
	return append(data, '\n')
}

func (f *LogEntryFile) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0444
	out.Size = uint64(len(f.commitBytes()))
	out.Ino = stableIno("log/" + string(f.commit.ID))
	return fs.OK
}

func (f *LogEntryFile) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	return nil, fuse.FOPEN_KEEP_CACHE, fs.OK
}

func (f *LogEntryFile) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	return readAt(f.commitBytes(), dest, off), fs.OK
}
