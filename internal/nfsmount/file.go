package nfsmount

import (
	"io"

	billy "github.com/go-git/go-billy/v5"

	"github.com/agentic-research/rcfs/internal/vfs"
)

// rcFile implements billy.File backed by vfs.Adapter.Read.
// Read-only: Write and Truncate return errors.
type rcFile struct {
	path    string
	size    int64
	adapter *vfs.Adapter
	fh      uint64
	pos     int64
}

func (f *rcFile) Name() string { return f.path }

func (f *rcFile) Read(p []byte) (int, error) {
	if f.pos >= f.size {
		return 0, io.EOF
	}
	n := copy(p, f.adapter.Read(f.path, f.fh, f.pos, int64(len(p))))
	if n == 0 {
		return 0, io.EOF
	}
	f.pos += int64(n)
	if f.pos >= f.size {
		return n, io.EOF
	}
	return n, nil
}

func (f *rcFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= f.size {
		return 0, io.EOF
	}
	n := copy(p, f.adapter.Read(f.path, f.fh, off, int64(len(p))))
	if n == 0 {
		return 0, io.EOF
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *rcFile) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = f.pos + offset
	case io.SeekEnd:
		newPos = f.size + offset
	}
	if newPos < 0 {
		newPos = 0
	}
	f.pos = newPos
	return f.pos, nil
}

func (f *rcFile) Write([]byte) (int, error) { return 0, errReadOnly }
func (f *rcFile) Truncate(int64) error      { return errReadOnly }
func (f *rcFile) Lock() error               { return nil }
func (f *rcFile) Unlock() error             { return nil }
func (f *rcFile) Close() error              { return nil }

var _ billy.File = (*rcFile)(nil)
