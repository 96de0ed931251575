// Package export writes a finished configuration tree to other formats:
// a SQLite snapshot and a JSON document.
package export

import (
	"bytes"
	"database/sql"
	"fmt"
	"path"

	"github.com/agentic-research/rcfs/internal/tree"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	path TEXT PRIMARY KEY,
	parent TEXT,
	name TEXT NOT NULL,
	kind INTEGER NOT NULL,
	size INTEGER DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_parent_name ON nodes(parent, name);

CREATE TABLE IF NOT EXISTS lines (
	path TEXT NOT NULL,
	seq INTEGER NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (path, seq)
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS file_ids (
	id INTEGER PRIMARY KEY,
	path TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS key_refs (
	key TEXT PRIMARY KEY,
	bitmap BLOB
);
`

// Node kinds stored in nodes.kind.
const (
	KindFile = 0
	KindDir  = 1
)

// WriteSQLite writes t to a SQLite database at dbPath. Existing rows for the
// same paths are replaced.
//
// key_refs maps each leaf key to a serialized roaring bitmap of file ids;
// file_ids resolves those ids to paths.
func WriteSQLite(t *tree.Tree, dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		return fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op once committed

	nodeStmt, err := tx.Prepare(`INSERT OR REPLACE INTO nodes (path, parent, name, kind, size) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare nodes insert: %w", err)
	}
	defer func() { _ = nodeStmt.Close() }()

	lineStmt, err := tx.Prepare(`INSERT OR REPLACE INTO lines (path, seq, key, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare lines insert: %w", err)
	}
	defer func() { _ = lineStmt.Close() }()

	fileStmt, err := tx.Prepare(`INSERT OR REPLACE INTO file_ids (id, path) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare file_ids insert: %w", err)
	}
	defer func() { _ = fileStmt.Close() }()

	var walkErr error
	t.Walk(func(n tree.Node) bool {
		var parent any
		if n.Path() != "/" {
			parent = path.Dir(n.Path())
		}

		switch n := n.(type) {
		case *tree.Dir:
			_, walkErr = nodeStmt.Exec(n.Path(), parent, n.Name(), KindDir, 0)
		case *tree.File:
			if _, walkErr = nodeStmt.Exec(n.Path(), parent, n.Name(), KindFile, n.Size()); walkErr != nil {
				break
			}
			if _, walkErr = fileStmt.Exec(n.FileID(), n.Path()); walkErr != nil {
				break
			}
			for i, l := range n.Lines() {
				if _, walkErr = lineStmt.Exec(n.Path(), i, l.Key, l.Value); walkErr != nil {
					break
				}
			}
		}
		if walkErr != nil {
			walkErr = fmt.Errorf("insert %s: %w", n.Path(), walkErr)
			return false
		}
		return true
	})
	if walkErr != nil {
		return walkErr
	}

	refStmt, err := tx.Prepare(`INSERT OR REPLACE INTO key_refs (key, bitmap) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare key_refs insert: %w", err)
	}
	defer func() { _ = refStmt.Close() }()

	var buf bytes.Buffer
	for _, key := range t.Keys() {
		buf.Reset()
		if _, err := t.KeyBitmap(key).WriteTo(&buf); err != nil {
			return fmt.Errorf("serialize bitmap for %s: %w", key, err)
		}
		if _, err := refStmt.Exec(key, buf.Bytes()); err != nil {
			return fmt.Errorf("insert key_ref %s: %w", key, err)
		}
	}

	return tx.Commit()
}
