package similarity

import (
	"math/rand/v2"
	"testing"
)

func TestProximityIdentity(t *testing.T) {
	cases := [][]int{
		{1},
		{1, 2, 3},
		{5, 5, 5},
		{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
	}
	for _, a := range cases {
		if got := Proximity(a, a); got != 100.0 {
			t.Errorf("Proximity(%v, same) = %.2f, want 100", a, got)
		}
	}
}

func TestProximityEmpty(t *testing.T) {
	if got := Proximity(nil, []int{1}); got != 0 {
		t.Errorf("empty candidate = %.2f, want 0", got)
	}
	if got := Proximity([]int{1}, nil); got != 0 {
		t.Errorf("empty reference = %.2f, want 0", got)
	}
}

func TestProximityBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 200; trial++ {
		a := make([]int, 1+rng.IntN(12))
		b := make([]int, 1+rng.IntN(12))
		for i := range a {
			a[i] = rng.IntN(6)
		}
		for i := range b {
			b[i] = rng.IntN(6)
		}
		s := Proximity(a, b)
		if s < 0 || s > 100 {
			t.Fatalf("Proximity(%v, %v) = %.2f out of [0,100]", a, b, s)
		}
	}
}

func TestProximityDistanceWeighting(t *testing.T) {
	// Token 7 matches at distance 1 on one side: score = (1/2) / 1 = 50%.
	if got := Proximity([]int{7}, []int{0, 7}); got != 50.0 {
		t.Errorf("distance-1 match = %.2f, want 50", got)
	}
	// Two tokens, one exact and one missing: (1 + 0) / 2 = 50%.
	if got := Proximity([]int{1, 2}, []int{1, 9}); got != 50.0 {
		t.Errorf("half match = %.2f, want 50", got)
	}
}

func TestProximityAsymmetry(t *testing.T) {
	a := []int{1, 2}
	b := []int{1, 2, 3, 4}
	// Normalized by the candidate's length: a→b is full score, b→a is not.
	if ab := Proximity(a, b); ab != 100.0 {
		t.Errorf("sim(a,b) = %.2f, want 100", ab)
	}
	if ba := Proximity(b, a); ba >= 100.0 {
		t.Errorf("sim(b,a) = %.2f, want < 100", ba)
	}
}

func TestJudgeThreshold(t *testing.T) {
	entries := [][]int{
		{1, 2, 3},
		{4, 5, 6},
	}

	redundant, idx, score := Judge([]int{1, 2, 3}, entries, 75.0)
	if !redundant {
		t.Fatal("identical line must be redundant")
	}
	if idx != 0 {
		t.Errorf("best index = %d, want 0", idx)
	}
	if score < 75.0 {
		t.Errorf("redundant verdict with score %.2f below threshold", score)
	}

	redundant, _, _ = Judge([]int{7, 8, 9}, entries, 75.0)
	if redundant {
		t.Fatal("disjoint line must not be redundant")
	}
}

func TestJudgeEmptyInputs(t *testing.T) {
	if redundant, idx, score := Judge(nil, [][]int{{1}}, 75.0); redundant || idx != -1 || score != 0 {
		t.Errorf("empty candidate: got (%v, %d, %.2f)", redundant, idx, score)
	}
	if redundant, idx, _ := Judge([]int{1}, nil, 75.0); redundant || idx != -1 {
		t.Errorf("empty entries: got (%v, %d)", redundant, idx)
	}
}

func TestJudgeShortCircuit(t *testing.T) {
	// The first entry already meets the threshold (2 of 3 tokens, 66.7%);
	// the better later match (100%) is skipped, but the reported score
	// must still be ≥ threshold.
	entries := [][]int{
		{1, 2, 9, 4},
		{1, 2, 3},
	}
	redundant, idx, score := Judge([]int{1, 2, 3}, entries, 50.0)
	if !redundant || score < 50.0 {
		t.Fatalf("got (%v, %d, %.2f), want redundant at ≥50", redundant, idx, score)
	}
	if idx != 0 {
		t.Errorf("short-circuit best index = %d, want 0", idx)
	}
}
