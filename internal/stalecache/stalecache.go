// Package stalecache backs the `stale` builtin (spec §4.8): a per-project cache
// recording each watched path's mtime and size, so a build script can ask "has any
// of these changed since I last checked" without re-running the actual build.
//
// Grounded on the pack's SQLite usage (mcgru-funxy's internal/evaluator/
// builtins_sql.go uses modernc.org/sqlite as a pure-Go driver behind database/sql)
// and on the teacher's internal/ext/config.go for the "one file under a dotdir
// next to the project root" storage convention.
package stalecache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS watched_paths (
	path     TEXT PRIMARY KEY,
	mod_time INTEGER NOT NULL,
	size     INTEGER NOT NULL
);
`

// Store is the staleness cache for one project root (the invocation parent
// directory, per spec §6's process-wide state).
type Store struct {
	db *sql.DB
}

// Open creates (if absent) a cache directory under root and opens its
// "staleness.db" inside it. dirName is normally ".tcmake" but may be
// overridden by technetium.yaml's cache_dir setting. The directory and file
// are created on first use, matching the spec's "created on first use"
// process-wide state.
func Open(root, dirName string) (*Store, error) {
	if dirName == "" {
		dirName = ".tcmake"
	}
	dir := filepath.Join(root, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("stalecache: creating %s: %w", dir, err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "staleness.db"))
	if err != nil {
		return nil, fmt.Errorf("stalecache: opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("stalecache: applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Stale returns the subset of paths whose recorded fingerprint (mtime, size)
// differs from the last time Stale observed it, and records the current
// observation for every path regardless of verdict (so each call becomes the
// new baseline, matching a `make`-style "stale relative to last check"
// semantics rather than "stale relative to some fixed snapshot").
func (s *Store) Stale(paths []string) ([]string, error) {
	var stale []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			// A watched path that no longer exists is trivially stale: whatever
			// produced it needs to run again.
			stale = append(stale, p)
			continue
		}
		mtime := info.ModTime().UnixNano()
		size := info.Size()

		var prevMtime, prevSize int64
		err = s.db.QueryRow(`SELECT mod_time, size FROM watched_paths WHERE path = ?`, p).
			Scan(&prevMtime, &prevSize)
		switch {
		case err == sql.ErrNoRows:
			stale = append(stale, p)
		case err != nil:
			return nil, fmt.Errorf("stalecache: querying %s: %w", p, err)
		case prevMtime != mtime || prevSize != size:
			stale = append(stale, p)
		}

		if _, err := s.db.Exec(
			`INSERT INTO watched_paths (path, mod_time, size) VALUES (?, ?, ?)
			 ON CONFLICT(path) DO UPDATE SET mod_time = excluded.mod_time, size = excluded.size`,
			p, mtime, size,
		); err != nil {
			return nil, fmt.Errorf("stalecache: recording %s: %w", p, err)
		}
	}
	return stale, nil
}
