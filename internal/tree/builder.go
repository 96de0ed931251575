package tree

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/agentic-research/rcfs/internal/rcparse"
)

// rcSuffix is appended to the deepest section level to name its file.
const rcSuffix = "rc"

var (
	ErrSourceUnavailable = errors.New("configuration source unavailable")
	ErrFinished          = errors.New("tree already finished")
	ErrIndexNotEmpty     = errors.New("index already holds entries")
)

// RootFileError reports a root file name that cannot live directly under /.
type RootFileError struct {
	Name   string
	Reason string
}

func (e *RootFileError) Error() string {
	return fmt.Sprintf("invalid root file name %q: %s", e.Name, e.Reason)
}

func validateRootFile(name string) error {
	switch {
	case name == "":
		return &RootFileError{Name: name, Reason: "empty name"}
	case name == "." || name == "..":
		return &RootFileError{Name: name, Reason: "reserved name"}
	case strings.Contains(name, "/"):
		return &RootFileError{Name: name, Reason: "contains '/'"}
	}
	return nil
}

// Conflict records a setting whose path collides with an entry of the
// other kind (a directory where a file is needed, or the reverse).
type Conflict struct {
	LineNo int
	Line   string
	Path   string
	Want   string // "dir" or "file"
	Have   string
}

func (c Conflict) String() string {
	return fmt.Sprintf("line %d: %s wanted as %s, already a %s", c.LineNo, c.Path, c.Want, c.Have)
}

// ConflictError is returned by a strict Builder on the first conflict.
type ConflictError struct {
	Conflict
}

func (e *ConflictError) Error() string {
	return "naming conflict: " + e.Conflict.String()
}

// Builder grows a Tree one configuration line at a time.
type Builder struct {
	tree     *Tree
	rootFile string
	strict   bool
	logger   *slog.Logger
	index    *Index
	lineNo   int
	finished bool
}

type Option func(*Builder)

// WithRootFile sets the name of the file holding top-level settings.
func WithRootFile(name string) Option {
	return func(b *Builder) { b.rootFile = name }
}

// WithStrict makes naming conflicts fatal.
func WithStrict(strict bool) Option {
	return func(b *Builder) { b.strict = strict }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithIndex makes the builder register nodes in ix instead of a fresh index.
// NewBuilder fails with ErrIndexNotEmpty unless ix is empty.
func WithIndex(ix *Index) Option {
	return func(b *Builder) { b.index = ix }
}

// NewBuilder returns a builder holding only / and the root file. It fails
// with a *RootFileError for a root file name that is not a single path
// segment.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{rootFile: DefaultRootFile}
	for _, opt := range opts {
		opt(b)
	}
	if err := validateRootFile(b.rootFile); err != nil {
		return nil, err
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.index == nil {
		b.index = NewIndex()
	} else if n := b.index.Len(); n > 0 {
		return nil, fmt.Errorf("%w: %d entries", ErrIndexNotEmpty, n)
	}
	b.tree = newTree(b.index, b.rootFile)
	return b, nil
}

// AddLine processes the next raw configuration line.
func (b *Builder) AddLine(raw string) error {
	if b.finished {
		return ErrFinished
	}
	b.lineNo++

	setting, ok, err := rcparse.Classify(raw)
	if err != nil {
		return b.malformed(raw, err)
	}
	if !ok {
		return nil
	}

	sec, err := rcparse.Resolve(setting.Path)
	if err != nil {
		return b.malformed(raw, err)
	}

	if sec.TopLevel {
		b.appendSetting(b.tree.rootFile, sec.Key, setting.Value)
		return nil
	}

	for i, level := range sec.Levels {
		isLeaf := i == len(sec.Levels)-1
		parent, ok := b.index.Get(path.Dir(level))
		parentDir, isDir := parent.(*Dir)
		if !ok || !isDir {
			// Unreachable: the previous level was resolved to a Dir.
			return fmt.Errorf("line %d: parent of %s is not a directory", b.lineNo, level)
		}
		base := path.Base(level)

		if !isLeaf {
			switch n := b.at(level).(type) {
			case nil:
				b.tree.newDir(parentDir, base, level)
			case *Dir:
			case *File:
				return b.conflict(raw, level, "dir", Kind(n))
			}
			continue
		}

		filePath := level + rcSuffix
		var f *File
		switch n := b.at(filePath).(type) {
		case nil:
			f = b.tree.newFile(parentDir, base+rcSuffix, filePath)
		case *File:
			f = n
		case *Dir:
			return b.conflict(raw, filePath, "file", Kind(n))
		}
		b.appendSetting(f, sec.Key, setting.Value)
	}
	return nil
}

func (b *Builder) at(p string) Node {
	n, _ := b.index.Get(p)
	return n
}

func (b *Builder) appendSetting(f *File, key, value string) {
	f.lines = append(f.lines, newSettingLine(key, value))
	b.tree.indexKey(key, f)
}

func (b *Builder) malformed(raw string, err error) error {
	var mErr *rcparse.MalformedLineError
	if errors.As(err, &mErr) {
		mErr.LineNo = b.lineNo
		mErr.Line = raw
		return mErr
	}
	return err
}

func (b *Builder) conflict(raw, p, want, have string) error {
	c := Conflict{LineNo: b.lineNo, Line: raw, Path: p, Want: want, Have: have}
	if b.strict {
		return &ConflictError{Conflict: c}
	}
	b.logger.Warn("naming conflict, setting skipped",
		"line", c.LineNo, "path", c.Path, "want", c.Want, "have", c.Have)
	b.tree.conflicts = append(b.tree.conflicts, c)
	return nil
}

// Finish freezes the builder and returns the tree. Later AddLine calls fail.
func (b *Builder) Finish() *Tree {
	b.finished = true
	return b.tree
}

// Build consumes r line by line to exhaustion and returns the finished tree.
// Nothing is returned on error: a partial tree is never exposed.
func Build(r io.Reader, opts ...Option) (*Tree, error) {
	b, err := NewBuilder(opts...)
	if err != nil {
		return nil, err
	}
	sc := rcparse.NewScanner(r)
	for sc.Next() {
		if err := b.AddLine(sc.Line()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrSourceUnavailable, err)
	}

	t := b.Finish()
	b.logger.Debug("configuration tree built",
		"lines", b.lineNo, "entries", t.index.Len(), "files", len(t.files), "conflicts", len(t.conflicts))
	return t, nil
}

// Load opens the configuration file at filename and builds its tree.
func Load(filename string, opts ...Option) (*Tree, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	return Build(f, opts...)
}
