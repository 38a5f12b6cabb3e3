package synth

import (
	"math/rand/v2"
	"testing"

	"github.com/danielpatrickdp/forager/internal/vocab"
)

func newTestVocab(tokens ...string) *vocab.Vocabulary {
	v := vocab.New()
	for _, tok := range tokens {
		v.Append(tok)
	}
	return v
}

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b9))
}

func TestSynthesizeEmptyVocabulary(t *testing.T) {
	sy := NewWithRand(vocab.New(), NewSettings(5, 100), testRand(1))
	if got := sy.Synthesize(); len(got) != 0 {
		t.Fatalf("empty vocabulary produced %v", got)
	}
}

func TestSynthesizeBounds(t *testing.T) {
	v := newTestVocab("a", "b", "c", "d", "e")
	for _, length := range []int{1, 3, 5, 10} {
		sy := NewWithRand(v, NewSettings(length, 100), testRand(uint64(length)))
		for trial := 0; trial < 50; trial++ {
			cmd := sy.Synthesize()
			if len(cmd) == 0 {
				t.Fatal("non-empty vocabulary produced an empty command")
			}
			max := length
			if max > v.Len() {
				max = v.Len()
			}
			if len(cmd) > max {
				t.Fatalf("len(cmd) = %d exceeds min(length=%d, N=%d)", len(cmd), length, v.Len())
			}
			seen := make(map[int]bool)
			for _, idx := range cmd {
				if idx < 0 || idx >= v.Len() {
					t.Fatalf("index %d out of range [0,%d)", idx, v.Len())
				}
				if seen[idx] {
					t.Fatalf("duplicate index %d in %v", idx, cmd)
				}
				seen[idx] = true
			}
		}
	}
}

func TestSynthesizeMinimalScope(t *testing.T) {
	// At the 1% scope floor a small vocabulary's sample rounds to zero
	// and clamps up to a single candidate, so every command has one
	// argument regardless of the requested length.
	v := newTestVocab("a", "b", "c")
	sy := NewWithRand(v, NewSettings(3, 1), testRand(42))
	for trial := 0; trial < 20; trial++ {
		if cmd := sy.Synthesize(); len(cmd) != 1 {
			t.Fatalf("scope-1 command = %v, want a single argument", cmd)
		}
	}
}

func TestSynthesizeFollowsAssociations(t *testing.T) {
	// With "b at slot 1 after a at slot 0" strongly rewarded, greedy
	// growth from seed "a" must always pick "b" next.
	v := newTestVocab("a", "b", "c", "d")
	v.AddAssoc(0, 0, 1, 1, 0) // no-op, keeps the map sparse
	v.AddAssoc(1, 1, 0, 0, 50)

	sy := NewWithRand(v, NewSettings(2, 100), testRand(7))
	sawSeedA := false
	for trial := 0; trial < 100; trial++ {
		cmd := sy.Synthesize()
		if len(cmd) == 2 && cmd[0] == 0 {
			sawSeedA = true
			if cmd[1] != 1 {
				t.Fatalf("after seed a, picked %d, want 1 (rewarded pair)", cmd[1])
			}
		}
	}
	if !sawSeedA {
		t.Fatal("random seeding never started from index 0 in 100 trials")
	}
}

func TestSettingsClampAndAdjust(t *testing.T) {
	s := NewSettings(99, 500)
	length, scope := s.Snapshot()
	if length != 10 || scope != 100 {
		t.Fatalf("Snapshot = (%d, %d), want clamped (10, 100)", length, scope)
	}

	for i := 0; i < 20; i++ {
		s.AdjustLength(-1)
	}
	if got, _ := s.Snapshot(); got != 1 {
		t.Errorf("length after floor = %d, want 1", got)
	}
	if got := s.AdjustLength(+1); got != 2 {
		t.Errorf("AdjustLength(+1) = %d, want 2", got)
	}

	s.SetScope(0)
	if _, scope := s.Snapshot(); scope != 1 {
		t.Errorf("scope after SetScope(0) = %d, want clamped 1", scope)
	}
}
