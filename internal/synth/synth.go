// Package synth builds candidate shell commands: it samples a scoped
// random subset of the vocabulary and grows the argument list greedily
// by association score, so word pairs that earned rewards at specific
// positions are proposed together again.
package synth

import (
	"math"
	"math/rand/v2"

	"github.com/danielpatrickdp/forager/internal/config"
	"github.com/danielpatrickdp/forager/internal/vocab"
)

// #region synthesizer

// Synthesizer produces command index sequences from a vocabulary under
// the shared settings. Safe for concurrent use by multiple workers.
type Synthesizer struct {
	vocab    *vocab.Vocabulary
	settings *Settings
	intn     func(n int) int // uniform [0,n); injectable for tests
}

// New creates a synthesizer backed by the process-wide RNG.
func New(v *vocab.Vocabulary, s *Settings) *Synthesizer {
	return &Synthesizer{vocab: v, settings: s, intn: rand.IntN}
}

// NewWithRand creates a synthesizer with an injected RNG, for
// deterministic tests. The caller guarantees single-threaded use.
func NewWithRand(v *vocab.Vocabulary, s *Settings, rng *rand.Rand) *Synthesizer {
	return &Synthesizer{vocab: v, settings: s, intn: rng.IntN}
}

// #endregion synthesizer

// #region synthesize

// Synthesize returns the word indices of one candidate command, in
// argument order. The result has no duplicates and its length is at
// most min(settings length, vocabulary size); an empty vocabulary
// yields an empty result. The whole construction runs under one
// vocabulary snapshot so the size observed at entry holds throughout.
func (sy *Synthesizer) Synthesize() []int {
	wantLen, scope := sy.settings.Snapshot()
	wantLen = clamp(wantLen, config.CmdMin, config.CmdMax)
	scope = clamp(scope, config.ScopeMin, config.ScopeMax)

	var chosen []int
	sy.vocab.View(func(s vocab.View) {
		n := s.N()
		if n == 0 {
			return
		}
		if wantLen > n {
			wantLen = n
		}

		sampleSize := int(math.Round(float64(n) * float64(scope) / 100.0))
		sampleSize = clamp(sampleSize, 1, n)

		// Candidate pool [0..n); promote sampleSize unique indices to the
		// front with a partial Fisher–Yates pass.
		candidates := make([]int, n)
		for i := range candidates {
			candidates[i] = i
		}
		for i := 0; i < sampleSize; i++ {
			j := i + sy.intn(n-i)
			candidates[i], candidates[j] = candidates[j], candidates[i]
		}

		// Seed with a uniformly random pick from the sample, then grow
		// greedily by pair score against the chosen prefix.
		chosen = make([]int, 0, wantLen)
		pick := sy.intn(sampleSize)
		chosen = append(chosen, candidates[pick])
		candidates[pick] = candidates[sampleSize-1]
		sampleSize--

		for len(chosen) < wantLen && sampleSize > 0 {
			idx := sy.greedyPick(s, candidates[:sampleSize], chosen)
			chosen = append(chosen, candidates[idx])
			candidates[idx] = candidates[sampleSize-1]
			sampleSize--
		}
	})

	return chosen
}

// greedyPick returns the pool index of the candidate maximizing the
// pair score for the next argument position, breaking ties uniformly
// at random.
func (sy *Synthesizer) greedyPick(s vocab.View, pool []int, chosen []int) int {
	pos := len(chosen)
	best := math.MinInt
	var ties []int
	for i, w := range pool {
		score := s.Score(w, pos, chosen)
		switch {
		case score > best:
			best = score
			ties = ties[:0]
			ties = append(ties, i)
		case score == best:
			ties = append(ties, i)
		}
	}
	return ties[sy.intn(len(ties))]
}

// #endregion synthesize
