// Package snapshot persists the freshness snapshot between runs: for each
// artifact path the last loaded modification time, or a pin that suppresses
// all refreshes. The store is the caller-owned side of the loader contract;
// the loader itself only ever reads the snapshot view.
package snapshot

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"sift/internal/errors"
	"sift/internal/loader"
	"sift/internal/logging"

	"github.com/cespare/xxhash/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	path         TEXT PRIMARY KEY,
	state        TEXT NOT NULL DEFAULT 'seen',
	mtime_ns     INTEGER NOT NULL DEFAULT 0,
	content_hash TEXT NOT NULL DEFAULT '',
	updated_at   INTEGER NOT NULL
);
`

// States stored in the artifacts table. Absent rows are unseen.
const (
	stateSeen   = "seen"
	statePinned = "pinned"
)

// ArtifactState is one row of the snapshot
type ArtifactState struct {
	Path      string
	Pinned    bool
	ModTime   time.Time
	Hash      string
	UpdatedAt time.Time
}

// Store is a SQLite-backed freshness snapshot. It implements
// loader.Snapshot.
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open opens or creates the snapshot database at <root>/.sift/snapshot.db
func Open(root string, logger *logging.Logger) (*Store, error) {
	dir := filepath.Join(root, ".sift")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New(errors.SnapshotIO, "cannot create .sift directory", err)
	}

	dbPath := filepath.Join(dir, "snapshot.db")
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.New(errors.SnapshotIO, "cannot open snapshot database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, errors.New(errors.SnapshotIO, "cannot set pragma", err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.New(errors.SnapshotIO, "cannot initialize schema", err)
	}

	return &Store{conn: conn, logger: logger, dbPath: dbPath}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// canonical absolutizes a path so that the same artifact keys the same row
// no matter how the caller spelled it. The loader joins paths from
// configured roots, which may be relative; the CLI absolutizes arguments.
// Both must hit the same row or pins are silently ineffective.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// Freshness implements loader.Snapshot. A read failure degrades to Unseen:
// loading too much is safe, silently skipping is not.
func (s *Store) Freshness(path string) loader.Freshness {
	var (
		state   string
		mtimeNs int64
	)
	err := s.conn.QueryRow(
		"SELECT state, mtime_ns FROM artifacts WHERE path = ?", canonical(path),
	).Scan(&state, &mtimeNs)
	if err == sql.ErrNoRows {
		return loader.Freshness{}
	}
	if err != nil {
		s.logger.Warn("snapshot read failed, treating as unseen", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return loader.Freshness{}
	}

	if state == statePinned {
		return loader.Pin()
	}
	return loader.KnownSince(time.Unix(0, mtimeNs))
}

// Record advances the snapshot with the units of a completed load. Pinned
// rows are never demoted.
func (s *Store) Record(units []loader.Unit) error {
	return s.withTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO artifacts (path, state, mtime_ns, content_hash, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				mtime_ns = excluded.mtime_ns,
				content_hash = excluded.content_hash,
				updated_at = excluded.updated_at
			WHERE artifacts.state != 'pinned'`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		now := time.Now().Unix()
		for _, u := range units {
			if _, err := stmt.Exec(canonical(u.Path), stateSeen, u.Timestamp.UnixNano(), hashFile(u.Path), now); err != nil {
				return err
			}
		}
		return nil
	})
}

// Pin marks a path as never-refresh
func (s *Store) Pin(path string) error {
	_, err := s.conn.Exec(`
		INSERT INTO artifacts (path, state, mtime_ns, content_hash, updated_at)
		VALUES (?, ?, 0, '', ?)
		ON CONFLICT(path) DO UPDATE SET state = 'pinned', updated_at = excluded.updated_at`,
		canonical(path), statePinned, time.Now().Unix())
	if err != nil {
		return errors.Newf(errors.SnapshotIO, err, "cannot pin %s", path)
	}
	return nil
}

// Forget drops all knowledge of a path; the next load treats it as unseen.
// Forgetting also clears a pin.
func (s *Store) Forget(path string) error {
	if _, err := s.conn.Exec("DELETE FROM artifacts WHERE path = ?", canonical(path)); err != nil {
		return errors.Newf(errors.SnapshotIO, err, "cannot forget %s", path)
	}
	return nil
}

// All returns every snapshot row, ordered by path
func (s *Store) All() ([]ArtifactState, error) {
	rows, err := s.conn.Query(
		"SELECT path, state, mtime_ns, content_hash, updated_at FROM artifacts ORDER BY path")
	if err != nil {
		return nil, errors.New(errors.SnapshotIO, "cannot list snapshot", err)
	}
	defer rows.Close()

	var states []ArtifactState
	for rows.Next() {
		var (
			st        ArtifactState
			state     string
			mtimeNs   int64
			updatedAt int64
		)
		if err := rows.Scan(&st.Path, &state, &mtimeNs, &st.Hash, &updatedAt); err != nil {
			return nil, errors.New(errors.SnapshotIO, "cannot scan snapshot row", err)
		}
		st.Pinned = state == statePinned
		st.ModTime = time.Unix(0, mtimeNs)
		st.UpdatedAt = time.Unix(updatedAt, 0)
		states = append(states, st)
	}
	return states, rows.Err()
}

func (s *Store) withTx(fn func(*sql.Tx) error) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return errors.New(errors.SnapshotIO, "cannot begin transaction", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", map[string]interface{}{
				"error":          err.Error(),
				"rollback_error": rbErr.Error(),
			})
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.New(errors.SnapshotIO, "cannot commit transaction", err)
	}
	return nil
}

// hashFile computes the xxhash of a file's contents. The hash is stored as
// forensic context only; the freshness policy itself is mtime-based.
func hashFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
