// Package obs keeps the append-only log of observation lines: token
// index sequences derived from captured command output.
package obs

import (
	"sync"

	"github.com/danielpatrickdp/forager/internal/similarity"
)

// #region log

// Log is the shared observation store. All methods are goroutine-safe.
type Log struct {
	mu      sync.Mutex
	entries [][]int
}

// New returns an empty observation log.
func New() *Log {
	return &Log{}
}

// #endregion log

// #region operations

// Append stores a tokenized line. The log takes ownership of the slice.
// Empty lines are ignored.
func (l *Log) Append(line []int) {
	if len(line) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, line)
}

// Len returns the number of stored lines.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Line returns a copy of the line at idx, or nil when out of range.
func (l *Log) Line(idx int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx < 0 || idx >= len(l.entries) {
		return nil
	}
	out := make([]int, len(l.entries[idx]))
	copy(out, l.entries[idx])
	return out
}

// Lines returns a shallow copy of all stored lines, for persistence.
// The inner slices are shared; the log never mutates them after Append.
func (l *Log) Lines() [][]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([][]int, len(l.entries))
	copy(out, l.entries)
	return out
}

// #endregion operations

// #region judge

// JudgeAndMaybeAppend judges candidate for redundancy against the
// stored lines and appends it when it is novel or storeRedundant is
// set, all under one critical section so no line can slip in between
// the judgement and the append. Ownership of candidate transfers to
// the log when appended.
func (l *Log) JudgeAndMaybeAppend(candidate []int, threshold float64, storeRedundant bool) (redundant bool, bestIndex int, bestScore float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	redundant, bestIndex, bestScore = similarity.Judge(candidate, l.entries, threshold)
	if len(candidate) > 0 && (!redundant || storeRedundant) {
		l.entries = append(l.entries, candidate)
	}
	return redundant, bestIndex, bestScore
}

// #endregion judge
