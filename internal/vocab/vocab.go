// Package vocab owns the agent's vocabulary: an insertion-ordered,
// append-only sequence of distinct words together with the association
// map that scores how word pairs have fared at specific argument
// positions. One mutex guards both; callers refer to words by index.
package vocab

import (
	"strings"
	"sync"

	"github.com/danielpatrickdp/forager/internal/assoc"
)

// #region vocabulary

// Vocabulary is the shared word store. All methods are goroutine-safe.
type Vocabulary struct {
	mu      sync.Mutex
	words   []string
	byToken map[string]int
	assoc   *assoc.Map
}

// New returns an empty vocabulary with an empty association map.
func New() *Vocabulary {
	return &Vocabulary{
		byToken: make(map[string]int),
		assoc:   assoc.NewMap(),
	}
}

// #endregion vocabulary

// #region words

// Find returns the index of token and whether it is known.
func (v *Vocabulary) Find(token string) (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	idx, ok := v.byToken[token]
	return idx, ok
}

// Append adds token unless it is empty or already present. It returns
// the token's index and whether a new entry was created.
func (v *Vocabulary) Append(token string) (int, bool) {
	if token == "" {
		return -1, false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if idx, ok := v.byToken[token]; ok {
		return idx, false
	}
	idx := len(v.words)
	v.words = append(v.words, token)
	v.byToken[token] = idx
	return idx, true
}

// Len returns the current vocabulary size.
func (v *Vocabulary) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.words)
}

// Word returns the word at idx, or "" when idx is out of range.
func (v *Vocabulary) Word(idx int) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if idx < 0 || idx >= len(v.words) {
		return ""
	}
	return v.words[idx]
}

// Words returns a copy of the ordered word list.
func (v *Vocabulary) Words() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.words))
	copy(out, v.words)
	return out
}

// #endregion words

// #region view

// View is a consistent read-only snapshot handle, valid only inside the
// callback passed to Vocabulary.View.
type View struct {
	words []string
	assoc *assoc.Map
}

// N returns the vocabulary size observed at snapshot entry.
func (s View) N() int {
	return len(s.words)
}

// Word returns the word at idx within the snapshot.
func (s View) Word(idx int) string {
	if idx < 0 || idx >= len(s.words) {
		return ""
	}
	return s.words[idx]
}

// Score sums the directional association strengths between candidate w
// proposed for position pos and every already-chosen argument; both
// directions are read since the map is asymmetric.
func (s View) Score(w, pos int, chosen []int) int {
	score := 0
	for q, wq := range chosen {
		if wq < 0 || wq >= len(s.words) || w >= len(s.words) {
			continue
		}
		score += s.assoc.Get(w, pos, wq, q)
		score += s.assoc.Get(wq, q, w, pos)
	}
	return score
}

// View runs fn under the vocabulary lock with a consistent snapshot.
// fn must not call back into Vocabulary methods.
func (v *Vocabulary) View(fn func(View)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(View{words: v.words, assoc: v.assoc})
}

// #endregion view

// #region associations

// ApplyReward adds delta to the association of every ordered pair of
// distinct argument positions in cmd. cmd[i] is the word index placed
// at argument position i.
func (v *Vocabulary) ApplyReward(cmd []int, delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for a, wa := range cmd {
		for b, wb := range cmd {
			if a == b {
				continue
			}
			v.assoc.Add(wa, a, wb, b, delta)
		}
	}
}

// AddAssoc adds delta to one association entry. Used by persistence
// load and the inspection tools.
func (v *Vocabulary) AddAssoc(i, pi, k, pk, delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.assoc.Add(i, pi, k, pk, delta)
}

// GetAssoc reads one association entry.
func (v *Vocabulary) GetAssoc(i, pi, k, pk int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.assoc.Get(i, pi, k, pk)
}

// AssocLen returns the number of live association entries.
func (v *Vocabulary) AssocLen() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.assoc.Len()
}

// RangeAssoc iterates live association entries under the lock.
func (v *Vocabulary) RangeAssoc(fn func(assoc.Key, int) bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.assoc.Range(fn)
}

// #endregion associations

// #region command-line

// CommandLine resolves a command's word indices into a space-joined
// shell line, skipping indices that are out of range. Empty result
// means nothing resolved.
func (v *Vocabulary) CommandLine(cmd []int) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	parts := make([]string, 0, len(cmd))
	for _, idx := range cmd {
		if idx < 0 || idx >= len(v.words) {
			continue
		}
		parts = append(parts, v.words[idx])
	}
	return strings.Join(parts, " ")
}

// #endregion command-line
