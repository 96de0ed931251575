// Package tree holds the in-memory directory/file tree built from a
// configuration source, and the path index used to query it.
package tree

import "slices"

// Node is either a *Dir or a *File.
type Node interface {
	Name() string
	Path() string
	node()
}

// Dir is a configuration section that has deeper sections below it.
type Dir struct {
	name  string
	path  string
	dirs  []*Dir  // creation order
	files []*File // creation order
}

func (d *Dir) Name() string { return d.name }
func (d *Dir) Path() string { return d.path }
func (*Dir) node()          {}

// Dirs returns a copy of the child directories in creation order.
func (d *Dir) Dirs() []*Dir { return slices.Clone(d.dirs) }

// Files returns a copy of the child rc-files in creation order.
func (d *Dir) Files() []*File { return slices.Clone(d.files) }

// Names returns child directory names followed by child file names.
func (d *Dir) Names() []string {
	names := make([]string, 0, len(d.dirs)+len(d.files))
	for _, c := range d.dirs {
		names = append(names, c.name)
	}
	for _, c := range d.files {
		names = append(names, c.name)
	}
	return names
}

// SettingLine is one setting held by an rc-file.
type SettingLine struct {
	Key      string
	Value    string
	Rendered string // "<Key> <Value>\n"
}

func newSettingLine(key, value string) SettingLine {
	return SettingLine{Key: key, Value: value, Rendered: key + " " + value + "\n"}
}

// File is a synthesized rc-file aggregating the settings of one section.
type File struct {
	name  string
	path  string
	id    uint32 // dense ordinal in creation order, used by the key index
	lines []SettingLine
}

func (f *File) Name() string { return f.name }
func (f *File) Path() string { return f.path }
func (*File) node()          {}

// Lines returns a copy of the file's settings in insertion order.
func (f *File) Lines() []SettingLine { return slices.Clone(f.lines) }

// Size is the byte length of the file's content.
func (f *File) Size() int64 {
	var n int64
	for _, l := range f.lines {
		n += int64(len(l.Rendered))
	}
	return n
}

// Content concatenates the rendered lines. It is recomputed on every call.
func (f *File) Content() []byte {
	buf := make([]byte, 0, f.Size())
	for _, l := range f.lines {
		buf = append(buf, l.Rendered...)
	}
	return buf
}

// Kind returns "dir" or "file".
func Kind(n Node) string {
	switch n.(type) {
	case *Dir:
		return "dir"
	case *File:
		return "file"
	default:
		panic("tree: unknown node type")
	}
}
