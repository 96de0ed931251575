// Package vfs answers read-only filesystem queries against a finished
// configuration tree. Both the FUSE and the NFS bindings sit on top of it.
package vfs

import (
	"errors"
	"os"
	"time"

	"github.com/agentic-research/rcfs/internal/tree"
	"golang.org/x/sys/unix"
)

const (
	// DirSize is the nominal size reported for every directory.
	DirSize = 100
	// OpenHandle is returned by every Open call. No per-handle state exists.
	OpenHandle uint64 = 42

	DirMode  = os.ModeDir | 0o755
	FileMode = os.FileMode(0o644)
)

var ErrNotFound = errors.New("no such entry")

// Attr is the attribute set returned by GetAttributes.
type Attr struct {
	Size  int64
	Mode  os.FileMode
	Uid   uint32
	Gid   uint32
	Mtime time.Time
	Atime time.Time
	Ctime time.Time
}

func (a Attr) IsDir() bool { return a.Mode.IsDir() }

// Adapter is safe for concurrent use; the tree is frozen after
// construction.
type Adapter struct {
	tree *tree.Tree
	uid  uint32
	gid  uint32
	now  func() time.Time
}

type Option func(*Adapter)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

// WithOwner overrides the uid/gid reported for every entry.
func WithOwner(uid, gid uint32) Option {
	return func(a *Adapter) {
		a.uid = uid
		a.gid = gid
	}
}

// New wraps a finished tree.
func New(t *tree.Tree, opts ...Option) *Adapter {
	a := &Adapter{
		tree: t,
		uid:  uint32(unix.Getuid()),
		gid:  uint32(unix.Getgid()),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Tree returns the underlying tree.
func (a *Adapter) Tree() *tree.Tree { return a.tree }

// ListDirectory returns child directory names followed by child file names.
// Files and missing paths give an empty listing.
func (a *Adapter) ListDirectory(path string) []string {
	n, ok := a.tree.Lookup(path)
	if !ok {
		return nil
	}
	switch n := n.(type) {
	case *tree.Dir:
		return n.Names()
	case *tree.File:
		return nil
	default:
		return nil
	}
}

// GetAttributes stats path. It fails with ErrNotFound for unknown paths.
func (a *Adapter) GetAttributes(path string) (Attr, error) {
	n, ok := a.tree.Lookup(path)
	if !ok {
		return Attr{}, ErrNotFound
	}

	now := a.now()
	attr := Attr{
		Uid:   a.uid,
		Gid:   a.gid,
		Mtime: now,
		Atime: now,
		Ctime: now,
	}
	switch n := n.(type) {
	case *tree.Dir:
		attr.Size = DirSize
		attr.Mode = DirMode
	case *tree.File:
		attr.Size = n.Size()
		attr.Mode = FileMode
	}
	return attr, nil
}

// Open always succeeds. Access modes are not enforced.
func (a *Adapter) Open(path string, flags int) uint64 {
	return OpenHandle
}

// Read returns content[offset:offset+length], clipped to the file's size.
// Content is rebuilt from the tree on every call.
func (a *Adapter) Read(path string, fh uint64, offset, length int64) []byte {
	content, ok := a.Content(path)
	if !ok || offset < 0 || length <= 0 || offset >= int64(len(content)) {
		return nil
	}
	end := offset + length
	if end > int64(len(content)) || end < offset {
		end = int64(len(content))
	}
	return content[offset:end]
}

// Content returns the whole content of the file at path.
func (a *Adapter) Content(path string) ([]byte, bool) {
	n, ok := a.tree.Lookup(path)
	if !ok {
		return nil, false
	}
	switch n := n.(type) {
	case *tree.File:
		return n.Content(), true
	case *tree.Dir:
		return nil, false
	default:
		return nil, false
	}
}
