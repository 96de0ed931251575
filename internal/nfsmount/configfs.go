// Package nfsmount provides an NFS-based mount backend for rcfs.
// It adapts vfs.Adapter to billy.Filesystem for use with willscott/go-nfs,
// as an alternative to the FUSE mount layer.
package nfsmount

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"

	"github.com/agentic-research/rcfs/internal/vfs"
)

var errReadOnly = fmt.Errorf("read-only filesystem")

// ConfigFS adapts vfs.Adapter to billy.Filesystem.
type ConfigFS struct {
	adapter *vfs.Adapter
	logger  *slog.Logger
}

// NewConfigFS creates a billy.Filesystem backed by a configuration tree.
func NewConfigFS(a *vfs.Adapter, logger *slog.Logger) *ConfigFS {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigFS{adapter: a, logger: logger}
}

// --- billy.Basic ---

func (fs *ConfigFS) Create(filename string) (billy.File, error) {
	return nil, errReadOnly
}

func (fs *ConfigFS) Open(filename string) (billy.File, error) {
	return fs.OpenFile(filename, os.O_RDONLY, 0)
}

func (fs *ConfigFS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	filename = cleanPath(filename)
	fs.logger.Debug("nfs open", "path", filename, "flags", flag)

	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		return nil, errReadOnly
	}

	attr, err := fs.adapter.GetAttributes(filename)
	if err != nil {
		return nil, pathError("open", filename, err)
	}
	if attr.IsDir() {
		return nil, &os.PathError{Op: "open", Path: filename, Err: fmt.Errorf("is a directory")}
	}

	return &rcFile{
		path:    filename,
		size:    attr.Size,
		adapter: fs.adapter,
		fh:      fs.adapter.Open(filename, flag),
	}, nil
}

func (fs *ConfigFS) Stat(filename string) (os.FileInfo, error) {
	return fs.Lstat(filename)
}

func (fs *ConfigFS) Rename(oldpath, newpath string) error {
	return errReadOnly
}

func (fs *ConfigFS) Remove(filename string) error {
	return errReadOnly
}

func (fs *ConfigFS) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// --- billy.TempFile ---

func (fs *ConfigFS) TempFile(dir, prefix string) (billy.File, error) {
	return nil, billy.ErrNotSupported
}

// --- billy.Dir ---

func (fs *ConfigFS) ReadDir(path string) ([]os.FileInfo, error) {
	path = cleanPath(path)
	fs.logger.Debug("nfs readdir", "path", path)

	attr, err := fs.adapter.GetAttributes(path)
	if err != nil {
		return nil, pathError("readdir", path, err)
	}
	if !attr.IsDir() {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: fmt.Errorf("not a directory")}
	}

	names := fs.adapter.ListDirectory(path)
	infos := make([]os.FileInfo, 0, len(names))
	for _, name := range names {
		child, err := fs.adapter.GetAttributes(childPath(path, name))
		if err != nil {
			continue
		}
		infos = append(infos, attrToFileInfo(name, child))
	}
	return infos, nil
}

func (fs *ConfigFS) MkdirAll(filename string, perm os.FileMode) error {
	return errReadOnly
}

// --- billy.Symlink ---

func (fs *ConfigFS) Lstat(filename string) (os.FileInfo, error) {
	filename = cleanPath(filename)
	fs.logger.Debug("nfs getattr", "path", filename)

	attr, err := fs.adapter.GetAttributes(filename)
	if err != nil {
		return nil, pathError("lstat", filename, err)
	}
	name := filepath.Base(filename)
	return attrToFileInfo(name, attr), nil
}

func (fs *ConfigFS) Symlink(target, link string) error {
	return billy.ErrNotSupported
}

func (fs *ConfigFS) Readlink(link string) (string, error) {
	return "", billy.ErrNotSupported
}

// --- billy.Chroot ---

func (fs *ConfigFS) Chroot(path string) (billy.Filesystem, error) {
	return chroot.New(fs, path), nil
}

func (fs *ConfigFS) Root() string {
	return "/"
}

// --- billy.Capable ---

func (fs *ConfigFS) Capabilities() billy.Capability {
	return billy.ReadCapability | billy.SeekCapability
}

// --- internals ---

// cleanPath normalizes a billy path to a clean absolute path.
func cleanPath(path string) string {
	path = filepath.Clean("/" + path)
	if path == "." {
		return "/"
	}
	return path
}

func childPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

func pathError(op, path string, err error) error {
	if errors.Is(err, vfs.ErrNotFound) {
		err = os.ErrNotExist
	}
	return &os.PathError{Op: op, Path: path, Err: err}
}

func attrToFileInfo(name string, a vfs.Attr) os.FileInfo {
	return &staticFileInfo{
		name:    name,
		size:    a.Size,
		mode:    a.Mode,
		modTime: a.Mtime,
		sys:     &Owner{Uid: a.Uid, Gid: a.Gid},
	}
}

// Owner is the Sys() payload of every FileInfo returned by ConfigFS.
type Owner struct {
	Uid uint32
	Gid uint32
}

// staticFileInfo implements os.FileInfo with static values.
type staticFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	sys     *Owner
}

func (fi *staticFileInfo) Name() string       { return fi.name }
func (fi *staticFileInfo) Size() int64        { return fi.size }
func (fi *staticFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *staticFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *staticFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *staticFileInfo) Sys() interface{}   { return fi.sys }

// Compile-time interface checks.
var (
	_ billy.Filesystem = (*ConfigFS)(nil)
	_ billy.Capable    = (*ConfigFS)(nil)
)
