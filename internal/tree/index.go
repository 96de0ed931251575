package tree

import "sort"

// Index maps absolute slash-delimited paths to nodes. It never owns nodes:
// a Dir owns its children, the index only finds them. Only a Builder
// registers entries.
type Index struct {
	entries map[string]Node
}

func NewIndex() *Index {
	return &Index{entries: make(map[string]Node)}
}

// Get returns the node registered at path.
func (ix *Index) Get(path string) (Node, bool) {
	n, ok := ix.entries[path]
	return n, ok
}

func (ix *Index) set(path string, n Node) {
	ix.entries[path] = n
}

// Len returns the number of registered paths.
func (ix *Index) Len() int { return len(ix.entries) }

// Paths returns all registered paths in lexical order.
func (ix *Index) Paths() []string {
	paths := make([]string, 0, len(ix.entries))
	for p := range ix.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
