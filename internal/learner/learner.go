// Package learner turns captured command output into learning: it
// tokenizes the output against the vocabulary, judges the line for
// redundancy against past observations, stores it, and rewards or
// penalizes the associations of the command that produced it.
package learner

import (
	"strings"

	"github.com/danielpatrickdp/forager/internal/obs"
	"github.com/danielpatrickdp/forager/internal/vocab"
)

// #region types

// Config holds the learning knobs.
type Config struct {
	Reward              int     // delta for a novel observation line
	Penalty             int     // delta (positive) applied negatively for a redundant one
	RedundancyThreshold float64 // percent similarity judged redundant
	StoreRedundant      bool    // keep redundant lines in the log too
	LineBuffer          int     // max tokens kept per observation line
}

// Result reports one update for journaling.
type Result struct {
	Reward    int     // learning value applied to the associations
	Tokens    int     // tokens that resolved to known words
	Redundant bool    // whether the line was judged redundant
	BestIndex int     // index of the closest stored line (-1 when none)
	BestScore float64 // similarity of that line, percent
}

// Learner mutates the vocabulary and observation log from output.
type Learner struct {
	vocab *vocab.Vocabulary
	obs   *obs.Log
	cfg   Config
}

// New creates a learner over the shared stores.
func New(v *vocab.Vocabulary, o *obs.Log, cfg Config) *Learner {
	return &Learner{vocab: v, obs: o, cfg: cfg}
}

// #endregion types

// #region update

// Update processes one iteration's captured output for the command
// whose word indices are cmd. Output tokens that are not already in
// the vocabulary are dropped: vocabulary growth belongs to load and
// seed, so novelty scoring cannot reward lines the update itself just
// made novel. The observation lock is taken and released before any
// association update touches the vocabulary lock.
func (l *Learner) Update(output []byte, cmd []int) Result {
	line := l.tokenize(output)

	// Default learning value when the output resolves to nothing.
	res := Result{Reward: 1, BestIndex: -1}

	if len(line) > 0 {
		res.Tokens = len(line)
		res.Redundant, res.BestIndex, res.BestScore = l.obs.JudgeAndMaybeAppend(
			line, l.cfg.RedundancyThreshold, l.cfg.StoreRedundant)
		if res.Redundant {
			res.Reward = -l.cfg.Penalty
		} else {
			res.Reward = l.cfg.Reward
		}
	}

	if len(cmd) > 0 {
		l.vocab.ApplyReward(cmd, res.Reward)
	}
	return res
}

// tokenize splits output on whitespace and keeps the indices of known
// words, capped at LineBuffer tokens.
func (l *Learner) tokenize(output []byte) []int {
	var line []int
	for _, tok := range strings.Fields(string(output)) {
		idx, ok := l.vocab.Find(tok)
		if !ok {
			continue
		}
		line = append(line, idx)
		if l.cfg.LineBuffer > 0 && len(line) >= l.cfg.LineBuffer {
			break
		}
	}
	return line
}

// #endregion update
