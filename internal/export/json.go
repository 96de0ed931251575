package export

import (
	"fmt"
	"io"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/rcfs/internal/tree"
)

// ToValue converts t into generic JSON data. A directory becomes an object
// keyed by child name; an rc-file becomes an array of {"key", "value"}
// objects in insertion order.
func ToValue(t *tree.Tree) any {
	return dirValue(t.Root())
}

func dirValue(d *tree.Dir) map[string]any {
	dirs, files := d.Dirs(), d.Files()
	m := make(map[string]any, len(dirs)+len(files))
	for _, c := range dirs {
		m[c.Name()] = dirValue(c)
	}
	for _, f := range files {
		fl := f.Lines()
		lines := make([]any, len(fl))
		for i, l := range fl {
			lines[i] = map[string]any{"key": l.Key, "value": l.Value}
		}
		m[f.Name()] = lines
	}
	return m
}

// Query evaluates a JSONPath expression against the JSON view of t.
func Query(t *tree.Tree, selector string) ([]any, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	return x.Get(ToValue(t)), nil
}

// Dump writes the JSON view of t to w, indented and with sorted keys.
// A non-empty selector restricts the output to the JSONPath matches.
func Dump(w io.Writer, t *tree.Tree, selector string) error {
	var v any = ToValue(t)
	if selector != "" {
		results, err := Query(t, selector)
		if err != nil {
			return err
		}
		v = results
	}

	if _, err := io.WriteString(w, oj.JSON(v, &ojg.Options{Indent: 2, Sort: true})); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
