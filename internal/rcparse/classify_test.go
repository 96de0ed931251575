package rcparse

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantOK  bool
		want    Setting
		wantErr bool
	}{
		{name: "comment", line: ";comment"},
		{name: "comment with leading key", line: ";video.driver opengl"},
		{name: "empty", line: ""},
		{name: "whitespace only", line: " \t  "},
		{name: "carriage return only", line: "\r"},
		{
			name:   "dotted setting",
			line:   "video.driver opengl",
			wantOK: true,
			want:   Setting{Path: "video.driver", Value: "opengl"},
		},
		{
			name:   "top-level setting",
			line:   "fullscreen 1",
			wantOK: true,
			want:   Setting{Path: "fullscreen", Value: "1"},
		},
		{
			name:   "value keeps internal whitespace",
			line:   "input.port1.gamepad.a joystick 0x0 button_1  ~",
			wantOK: true,
			want:   Setting{Path: "input.port1.gamepad.a", Value: "joystick 0x0 button_1  ~"},
		},
		{
			name:   "extra separator whitespace stays in value",
			line:   "sound.volume  100",
			wantOK: true,
			want:   Setting{Path: "sound.volume", Value: " 100"},
		},
		{
			name:   "tab separator",
			line:   "sound.rate\t48000",
			wantOK: true,
			want:   Setting{Path: "sound.rate", Value: "48000"},
		},
		{
			name:   "empty value",
			line:   "filesys.path_cheat ",
			wantOK: true,
			want:   Setting{Path: "filesys.path_cheat", Value: ""},
		},
		{
			name:   "crlf stripped",
			line:   "video.driver opengl\r",
			wantOK: true,
			want:   Setting{Path: "video.driver", Value: "opengl"},
		},
		{name: "no separator", line: "malformedline", wantErr: true},
		{name: "leading whitespace", line: " video.driver opengl", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Classify(tt.line)
			if tt.wantErr {
				var mErr *MalformedLineError
				require.True(t, errors.As(err, &mErr), "want MalformedLineError, got %v", err)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMalformedLineError_Message(t *testing.T) {
	err := &MalformedLineError{LineNo: 7, Line: "bogus", Reason: "missing whitespace separator"}
	assert.Equal(t, `malformed line 7 "bogus": missing whitespace separator`, err.Error())

	err.LineNo = 0
	assert.Equal(t, `malformed line "bogus": missing whitespace separator`, err.Error())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    Section
		wantErr bool
	}{
		{
			name: "top-level",
			path: "fullscreen",
			want: Section{TopLevel: true, Key: "fullscreen"},
		},
		{
			name: "one section",
			path: "video.driver",
			want: Section{Key: "driver", Levels: []string{"/video"}},
		},
		{
			name: "nested sections",
			path: "a.b.c.key",
			want: Section{Key: "key", Levels: []string{"/a", "/a/b", "/a/b/c"}},
		},
		{
			name: "empty leaf key",
			path: "a.b.",
			want: Section{Key: "", Levels: []string{"/a", "/a/b"}},
		},
		{name: "empty path", path: "", wantErr: true},
		{name: "leading dot", path: ".key", wantErr: true},
		{name: "double dot", path: "a..key", wantErr: true},
		{name: "slash in segment", path: "a/b.key", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.path)
			if tt.wantErr {
				var mErr *MalformedLineError
				assert.True(t, errors.As(err, &mErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSection_Leaf(t *testing.T) {
	s, err := Resolve("input.port1.type")
	require.NoError(t, err)
	assert.Equal(t, "/input/port1", s.Leaf())

	s, err = Resolve("fullscreen")
	require.NoError(t, err)
	assert.Equal(t, "", s.Leaf())
}

func TestScanner(t *testing.T) {
	sc := NewScanner(strings.NewReader(";comment\n\nvideo.driver opengl\r\nfullscreen 1"))

	var lines []string
	var numbers []int
	for sc.Next() {
		lines = append(lines, sc.Line())
		numbers = append(numbers, sc.LineNo())
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []string{";comment", "", "video.driver opengl", "fullscreen 1"}, lines)
	assert.Equal(t, []int{1, 2, 3, 4}, numbers)
}

func TestScanner_LineTooLong(t *testing.T) {
	long := "a.b " + strings.Repeat("x", maxLineSize+1)
	sc := NewScanner(strings.NewReader(long))
	for sc.Next() {
	}
	assert.Error(t, sc.Err())
}
