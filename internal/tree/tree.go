package tree

import (
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring"
)

// DefaultRootFile is the name of the file holding top-level settings.
const DefaultRootFile = "mednafenrc"

// Tree is the result of one construction pass. It is immutable once
// Builder.Finish has returned it.
type Tree struct {
	root      *Dir
	rootFile  *File
	index     *Index
	files     []*File                    // by File.id
	keys      map[string]*roaring.Bitmap // leaf key -> file ids
	conflicts []Conflict
}

func newTree(ix *Index, rootFile string) *Tree {
	root := &Dir{path: "/"}
	t := &Tree{
		root:  root,
		index: ix,
		keys:  make(map[string]*roaring.Bitmap),
	}
	ix.set("/", root)
	t.rootFile = t.newFile(root, rootFile, "/"+rootFile)
	return t
}

func (t *Tree) newFile(parent *Dir, name, path string) *File {
	f := &File{name: name, path: path, id: uint32(len(t.files))}
	t.files = append(t.files, f)
	parent.files = append(parent.files, f)
	t.index.set(path, f)
	return f
}

func (t *Tree) newDir(parent *Dir, name, path string) *Dir {
	d := &Dir{name: name, path: path}
	parent.dirs = append(parent.dirs, d)
	t.index.set(path, d)
	return d
}

// Root returns the root directory.
func (t *Tree) Root() *Dir { return t.root }

// RootFile returns the file holding top-level settings.
func (t *Tree) RootFile() *File { return t.rootFile }

// Index returns the path index shared with the query adapters. It is
// lookup-only outside this package.
func (t *Tree) Index() *Index { return t.index }

// Lookup resolves an absolute path.
func (t *Tree) Lookup(path string) (Node, bool) { return t.index.Get(path) }

// Files returns every rc-file in creation order.
func (t *Tree) Files() []*File { return slices.Clone(t.files) }

// Conflicts returns the naming conflicts met during construction.
func (t *Tree) Conflicts() []Conflict { return slices.Clone(t.conflicts) }

// Walk visits every node depth-first, directories before files, in
// creation order. Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(n Node) bool) {
	walkDir(t.root, fn)
}

func walkDir(d *Dir, fn func(Node) bool) bool {
	if !fn(d) {
		return false
	}
	for _, c := range d.dirs {
		if !walkDir(c, fn) {
			return false
		}
	}
	for _, f := range d.files {
		if !fn(f) {
			return false
		}
	}
	return true
}

// Keys returns every leaf key seen, sorted.
func (t *Tree) Keys() []string {
	keys := make([]string, 0, len(t.keys))
	for k := range t.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
