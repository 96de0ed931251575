package rcparse

import "strings"

// Section is a resolved setting path.
type Section struct {
	// TopLevel is set when the path has no dots; the setting belongs in the
	// root settings file and Levels is empty.
	TopLevel bool
	// Key is the leaf key (the segment after the last dot).
	Key string
	// Levels lists every ancestor directory path of the section, root to leaf:
	// "a.b.c.key" gives ["/a", "/a/b", "/a/b/c"].
	Levels []string
}

// Leaf returns the deepest level, or "" for a top-level setting.
func (s Section) Leaf() string {
	if len(s.Levels) == 0 {
		return ""
	}
	return s.Levels[len(s.Levels)-1]
}

// Resolve splits a setting path into its section levels and leaf key.
func Resolve(settingPath string) (Section, error) {
	if settingPath == "" {
		return Section{}, &MalformedLineError{Line: settingPath, Reason: "empty setting path"}
	}

	dot := strings.LastIndexByte(settingPath, '.')
	if dot < 0 {
		return Section{TopLevel: true, Key: settingPath}, nil
	}

	segments := strings.Split(settingPath[:dot], ".")
	levels := make([]string, 0, len(segments))
	var b strings.Builder
	for _, seg := range segments {
		if seg == "" {
			return Section{}, &MalformedLineError{Line: settingPath, Reason: "empty section segment"}
		}
		if strings.ContainsRune(seg, '/') {
			return Section{}, &MalformedLineError{Line: settingPath, Reason: "section segment contains '/'"}
		}
		b.WriteByte('/')
		b.WriteString(seg)
		levels = append(levels, b.String())
	}

	return Section{Key: settingPath[dot+1:], Levels: levels}, nil
}
