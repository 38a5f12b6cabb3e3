package persist

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region types

// Entry is one journaled iteration.
type Entry struct {
	Seq         int64
	Command     string
	Reward      int
	Redundant   bool
	BestScore   float64
	OutputBytes int
	Duration    time.Duration
	CreatedAt   time.Time
}

// IterationRow is a journal row as read back by the inspection tools.
type IterationRow struct {
	RunID     string
	Seq       int64
	Command   string
	Reward    int
	Redundant bool
	BestScore float64
	CreatedAt time.Time
}

// #endregion types

// #region journal

// Journal appends per-iteration provenance rows, tagged with the run ID
// minted at construction. Safe for concurrent use.
type Journal struct {
	db    *sql.DB
	runID string
}

// NewJournal creates a journal writing to the store's database under a
// fresh run ID.
func NewJournal(s *Store) *Journal {
	return &Journal{db: s.DB(), runID: uuid.New().String()}
}

// RunID returns this journal's run identifier.
func (j *Journal) RunID() string {
	return j.runID
}

// LogIteration writes one entry. Failures are the caller's to log and
// swallow; journaling never gates the learning loop.
func (j *Journal) LogIteration(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := j.db.Exec(
		`INSERT INTO iterations (run_id, seq, command, reward, redundant, best_score, output_bytes, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.runID, e.Seq, e.Command, e.Reward, boolToInt(e.Redundant), e.BestScore,
		e.OutputBytes, e.Duration.Milliseconds(), e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log iteration: %w", err)
	}
	return nil
}

// #endregion journal

// #region queries

// RecentIterations returns the newest journal rows, newest first.
func (s *Store) RecentIterations(limit int) ([]IterationRow, error) {
	rows, err := s.db.Query(
		`SELECT run_id, seq, command, reward, redundant, best_score, created_at
		 FROM iterations ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent iterations: %w", err)
	}
	defer rows.Close()

	var out []IterationRow
	for rows.Next() {
		var r IterationRow
		var redundant int
		var created string
		if err := rows.Scan(&r.RunID, &r.Seq, &r.Command, &r.Reward, &redundant, &r.BestScore, &created); err != nil {
			return nil, fmt.Errorf("scan iteration: %w", err)
		}
		r.Redundant = redundant != 0
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion queries

// #region helpers

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
