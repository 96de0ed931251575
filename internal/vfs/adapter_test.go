package vfs

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/agentic-research/rcfs/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleConfig = `;comment

video.driver opengl
input.port1.type gamepad
fullscreen 1
`

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAdapter(t *testing.T, src string) *Adapter {
	t.Helper()
	tr, err := tree.Build(strings.NewReader(src), tree.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return New(tr, WithClock(func() time.Time { return fixedNow }), WithOwner(1000, 100))
}

func TestListDirectory(t *testing.T) {
	a := newTestAdapter(t, sampleConfig)

	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "root lists dirs before files", path: "/", want: []string{"input", "mednafenrc", "videorc"}},
		{name: "subdirectory", path: "/input", want: []string{"port1rc"}},
		{name: "file has no listing", path: "/videorc", want: nil},
		{name: "missing path has no listing", path: "/does/not/exist", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.ListDirectory(tt.path))
		})
	}
}

func TestListDirectory_NoDuplicates(t *testing.T) {
	a := newTestAdapter(t, "a.b.c 1\na.b.d 2\na.e.f 3\na.x 4\na.b.c 5\n")

	assert.Equal(t, []string{"brc", "erc"}, a.ListDirectory("/a"))
	assert.Equal(t, []string{"a", "mednafenrc", "arc"}, a.ListDirectory("/"))
}

func TestGetAttributes(t *testing.T) {
	a := newTestAdapter(t, sampleConfig)

	tests := []struct {
		name    string
		path    string
		wantErr error
		want    Attr
	}{
		{
			name: "root directory",
			path: "/",
			want: Attr{Size: DirSize, Mode: DirMode, Uid: 1000, Gid: 100, Mtime: fixedNow, Atime: fixedNow, Ctime: fixedNow},
		},
		{
			name: "directory",
			path: "/input",
			want: Attr{Size: DirSize, Mode: DirMode, Uid: 1000, Gid: 100, Mtime: fixedNow, Atime: fixedNow, Ctime: fixedNow},
		},
		{
			name: "file size is rendered length",
			path: "/videorc",
			want: Attr{Size: int64(len("driver opengl\n")), Mode: FileMode, Uid: 1000, Gid: 100, Mtime: fixedNow, Atime: fixedNow, Ctime: fixedNow},
		},
		{
			name:    "missing path",
			path:    "/does/not/exist",
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.GetAttributes(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetAttributes_DefaultOwnerIsProcess(t *testing.T) {
	tr, err := tree.Build(strings.NewReader("fullscreen 1\n"))
	require.NoError(t, err)
	a := New(tr)

	attr, err := a.GetAttributes("/mednafenrc")
	require.NoError(t, err)
	assert.Equal(t, uint32(os.Getuid()), attr.Uid)
	assert.Equal(t, uint32(os.Getgid()), attr.Gid)
	assert.False(t, attr.IsDir())
	assert.WithinDuration(t, time.Now(), attr.Mtime, time.Minute)
}

func TestOpen_AlwaysSucceeds(t *testing.T) {
	a := newTestAdapter(t, sampleConfig)

	assert.Equal(t, OpenHandle, a.Open("/videorc", os.O_RDONLY))
	assert.Equal(t, OpenHandle, a.Open("/videorc", os.O_RDWR))
	assert.Equal(t, OpenHandle, a.Open("/does/not/exist", 0))
}

func TestRead(t *testing.T) {
	a := newTestAdapter(t, sampleConfig)

	tests := []struct {
		name   string
		path   string
		offset int64
		length int64
		want   string
	}{
		{name: "prefix", path: "/videorc", offset: 0, length: 6, want: "driver"},
		{name: "whole file", path: "/videorc", offset: 0, length: 4096, want: "driver opengl\n"},
		{name: "middle", path: "/videorc", offset: 7, length: 6, want: "opengl"},
		{name: "clipped at end", path: "/videorc", offset: 7, length: 100, want: "opengl\n"},
		{name: "offset beyond end", path: "/videorc", offset: 100, length: 10, want: ""},
		{name: "offset at end", path: "/videorc", offset: 14, length: 10, want: ""},
		{name: "zero length", path: "/videorc", offset: 0, length: 0, want: ""},
		{name: "huge length", path: "/videorc", offset: 1, length: math.MaxInt64, want: "river opengl\n"},
		{name: "directory", path: "/input", offset: 0, length: 10, want: ""},
		{name: "missing", path: "/nope", offset: 0, length: 10, want: ""},
		{name: "root file", path: "/mednafenrc", offset: 0, length: 100, want: "fullscreen 1\n"},
		{name: "nested file", path: "/input/port1rc", offset: 0, length: 100, want: "type gamepad\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Read(tt.path, OpenHandle, tt.offset, tt.length)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRead_SlicingLaw(t *testing.T) {
	a := newTestAdapter(t, "a.b.c value1\na.b.d value2\nfullscreen 1\n")

	full, ok := a.Content("/a/brc")
	require.True(t, ok)
	size := int64(len(full))

	for offset := int64(0); offset <= size+2; offset++ {
		for length := int64(0); length <= size+2; length++ {
			got := a.Read("/a/brc", OpenHandle, offset, length)

			var want string
			if offset < size {
				want = string(full[offset:min(offset+length, size)])
			}
			require.Equal(t, want, string(got), "offset=%d length=%d", offset, length)
		}
	}
}

func TestRead_ContentIsStable(t *testing.T) {
	a := newTestAdapter(t, sampleConfig)

	first := a.Read("/input/port1rc", OpenHandle, 0, 1024)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, a.Read("/input/port1rc", OpenHandle, 0, 1024))
	}

	attr, err := a.GetAttributes("/input/port1rc")
	require.NoError(t, err)
	assert.Equal(t, int64(len(first)), attr.Size)
}

func TestContent(t *testing.T) {
	a := newTestAdapter(t, sampleConfig)

	c, ok := a.Content("/videorc")
	require.True(t, ok)
	assert.Equal(t, "driver opengl\n", string(c))

	_, ok = a.Content("/input")
	assert.False(t, ok)
	_, ok = a.Content("/nope")
	assert.False(t, ok)
}

func TestConcurrentQueries(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, "sect%d.sub.key%d value%d\n", i%5, i, i)
	}
	a := newTestAdapter(t, sb.String())

	var eg errgroup.Group
	for w := 0; w < 8; w++ {
		eg.Go(func() error {
			for i := 0; i < 5; i++ {
				p := fmt.Sprintf("/sect%d/subrc", i)
				attr, err := a.GetAttributes(p)
				if err != nil {
					return err
				}
				data := a.Read(p, OpenHandle, 0, attr.Size)
				if int64(len(data)) != attr.Size {
					return fmt.Errorf("%s: read %d bytes, want %d", p, len(data), attr.Size)
				}
				if names := a.ListDirectory(fmt.Sprintf("/sect%d", i)); len(names) != 1 {
					return fmt.Errorf("sect%d: listing %v", i, names)
				}
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
}
