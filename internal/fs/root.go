package fs

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/agentic-research/rcfs/internal/vfs"
	"github.com/winfsp/cgofuse/fuse"
)

// ConfigFS implements the FUSE interface from cgofuse on top of a vfs.Adapter.
// Every method is a read against the frozen tree.
type ConfigFS struct {
	fuse.FileSystemBase
	Adapter *vfs.Adapter
	logger  *slog.Logger
}

func NewConfigFS(a *vfs.Adapter, logger *slog.Logger) *ConfigFS {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigFS{Adapter: a, logger: logger}
}

// Getattr (Stat)
func (fs *ConfigFS) Getattr(path string, stat *fuse.Stat_t, fh uint64) int {
	fs.logger.Debug("getattr", "path", path)

	attr, err := fs.Adapter.GetAttributes(path)
	if errors.Is(err, vfs.ErrNotFound) {
		return -fuse.ENOENT
	}
	if err != nil {
		return -fuse.EIO
	}
	fillStat(stat, attr)
	return 0
}

// Opendir rejects paths that are not directories so Readdir only sees dirs.
func (fs *ConfigFS) Opendir(path string) (int, uint64) {
	attr, err := fs.Adapter.GetAttributes(path)
	if err != nil {
		return -fuse.ENOENT, ^uint64(0)
	}
	if !attr.IsDir() {
		return -fuse.ENOTDIR, ^uint64(0)
	}
	return 0, vfs.OpenHandle
}

// Readdir (List directory)
func (fs *ConfigFS) Readdir(path string, fill func(name string, stat *fuse.Stat_t, ofst int64) bool, ofst int64, fh uint64) int {
	fs.logger.Debug("readdir", "path", path)

	fill(".", nil, 0)
	fill("..", nil, 0)
	for _, name := range fs.Adapter.ListDirectory(path) {
		if !fill(name, nil, 0) {
			break
		}
	}
	return 0
}

// Open hands out the constant handle; there is no per-handle state.
func (fs *ConfigFS) Open(path string, flags int) (int, uint64) {
	fs.logger.Debug("open", "path", path, "flags", flags)
	return 0, fs.Adapter.Open(path, flags)
}

// Read (Cat file)
func (fs *ConfigFS) Read(path string, buff []byte, ofst int64, fh uint64) int {
	fs.logger.Debug("read", "path", path, "fh", fh, "len", len(buff), "ofst", ofst)
	return copy(buff, fs.Adapter.Read(path, fh, ofst, int64(len(buff))))
}

func fillStat(stat *fuse.Stat_t, attr vfs.Attr) {
	if attr.IsDir() {
		stat.Mode = fuse.S_IFDIR | uint32(attr.Mode.Perm())
		stat.Nlink = 2
	} else {
		stat.Mode = fuse.S_IFREG | uint32(attr.Mode.Perm())
		stat.Nlink = 1
	}
	stat.Size = attr.Size
	stat.Uid = attr.Uid
	stat.Gid = attr.Gid
	stat.Mtim = fuse.NewTimespec(attr.Mtime)
	stat.Atim = fuse.NewTimespec(attr.Atime)
	stat.Ctim = fuse.NewTimespec(attr.Ctime)
	stat.Birthtim = fuse.NewTimespec(attr.Ctime)
}

// Mount builds the FUSE host and blocks until the filesystem is unmounted.
// The filesystem is mounted read-only and owned by the calling process.
func Mount(fs *ConfigFS, mountPoint string, extraOpts []string) error {
	host := fuse.NewFileSystemHost(fs)

	attr, err := fs.Adapter.GetAttributes("/")
	if err != nil {
		return err
	}
	opts := []string{
		"-o", "ro",
		"-o", fmt.Sprintf("uid=%d", attr.Uid),
		"-o", fmt.Sprintf("gid=%d", attr.Gid),
	}
	opts = append(opts, extraOpts...)

	if !host.Mount(mountPoint, opts) {
		return errors.New("mount failed")
	}
	return nil
}
