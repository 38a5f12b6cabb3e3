// Package persist stores the agent's learned state — vocabulary,
// associations, observations — and its per-iteration journal in a
// single SQLite database.
package persist

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/forager/internal/assoc"
	"github.com/danielpatrickdp/forager/internal/obs"
	"github.com/danielpatrickdp/forager/internal/vocab"
)

// #region schema

// lineTerminator closes every persisted observation line. In-memory
// lines are plain slices; the sentinel exists only in this encoding.
const lineTerminator = -1

const schema = `
CREATE TABLE IF NOT EXISTS words (
	pos    INTEGER PRIMARY KEY,
	token  TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS assoc (
	i    INTEGER NOT NULL,
	pi   INTEGER NOT NULL,
	k    INTEGER NOT NULL,
	pk   INTEGER NOT NULL,
	val  INTEGER NOT NULL,
	PRIMARY KEY (i, pi, k, pk)
);

CREATE TABLE IF NOT EXISTS observations (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	line  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS iterations (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	seq          INTEGER NOT NULL,
	command      TEXT NOT NULL,
	reward       INTEGER NOT NULL,
	redundant    INTEGER NOT NULL,
	best_score   REAL NOT NULL,
	output_bytes INTEGER NOT NULL,
	duration_ms  INTEGER NOT NULL,
	created_at   TEXT NOT NULL
);
`

// #endregion schema

// #region store

// Store wraps the SQLite database holding all persistent state.
type Store struct {
	db *sql.DB
}

// Open creates parent directories as needed, opens the database, and
// runs the schema. A fresh file yields empty state, not an error.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle for the journal and the inspection
// tools.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region load

// Load populates the vocabulary and observation log from the database.
// Duplicate or empty tokens deduplicate through Vocabulary.Append, and
// association rows for words that no longer resolve are skipped.
func (s *Store) Load(v *vocab.Vocabulary, o *obs.Log) error {
	if err := s.loadWords(v); err != nil {
		return err
	}
	if err := s.loadAssoc(v); err != nil {
		return err
	}
	return s.loadObservations(o)
}

func (s *Store) loadWords(v *vocab.Vocabulary) error {
	rows, err := s.db.Query(`SELECT token FROM words ORDER BY pos`)
	if err != nil {
		return fmt.Errorf("load words: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return fmt.Errorf("scan word: %w", err)
		}
		v.Append(token)
	}
	return rows.Err()
}

func (s *Store) loadAssoc(v *vocab.Vocabulary) error {
	rows, err := s.db.Query(`SELECT i, pi, k, pk, val FROM assoc`)
	if err != nil {
		return fmt.Errorf("load assoc: %w", err)
	}
	defer rows.Close()
	n := v.Len()
	for rows.Next() {
		var i, pi, k, pk, val int
		if err := rows.Scan(&i, &pi, &k, &pk, &val); err != nil {
			return fmt.Errorf("scan assoc: %w", err)
		}
		if i < 0 || i >= n || k < 0 || k >= n {
			continue
		}
		v.AddAssoc(i, pi, k, pk, val)
	}
	return rows.Err()
}

func (s *Store) loadObservations(o *obs.Log) error {
	rows, err := s.db.Query(`SELECT line FROM observations ORDER BY id`)
	if err != nil {
		return fmt.Errorf("load observations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return fmt.Errorf("scan observation: %w", err)
		}
		if line := decodeLine(encoded); len(line) > 0 {
			o.Append(line)
		}
	}
	return rows.Err()
}

// #endregion load

// #region save

// Save rewrites the learned state in one transaction. Journal rows are
// append-only and are left untouched.
func (s *Store) Save(v *vocab.Vocabulary, o *obs.Log) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"words", "assoc", "observations"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for pos, token := range v.Words() {
		if _, err := tx.Exec(`INSERT INTO words (pos, token) VALUES (?, ?)`, pos, token); err != nil {
			return fmt.Errorf("insert word %d: %w", pos, err)
		}
	}

	var assocErr error
	v.RangeAssoc(func(key assoc.Key, val int) bool {
		_, assocErr = tx.Exec(
			`INSERT INTO assoc (i, pi, k, pk, val) VALUES (?, ?, ?, ?, ?)`,
			key.I, key.Pi, key.K, key.Pk, val,
		)
		return assocErr == nil
	})
	if assocErr != nil {
		return fmt.Errorf("insert assoc: %w", assocErr)
	}

	for _, line := range o.Lines() {
		if _, err := tx.Exec(`INSERT INTO observations (line) VALUES (?)`, encodeLine(line)); err != nil {
			return fmt.Errorf("insert observation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion save

// #region line-encoding

// encodeLine renders token indices space-separated with the closing
// terminator, e.g. "4 17 2 -1".
func encodeLine(line []int) string {
	parts := make([]string, 0, len(line)+1)
	for _, idx := range line {
		parts = append(parts, strconv.Itoa(idx))
	}
	parts = append(parts, strconv.Itoa(lineTerminator))
	return strings.Join(parts, " ")
}

// decodeLine parses an encoded line, stopping at the terminator or the
// first malformed field. Negative indices never enter the result.
func decodeLine(encoded string) []int {
	var line []int
	for _, field := range strings.Fields(encoded) {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			break
		}
		line = append(line, n)
	}
	return line
}

// #endregion line-encoding
