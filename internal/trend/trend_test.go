package trend

import "testing"

func TestZerosStayFlat(t *testing.T) {
	tr := NewTracker(10)
	for i := 0; i < 20; i++ {
		tr.Push(0)
	}
	if got := tr.Mean(); got != 0 {
		t.Errorf("mean = %.2f, want 0", got)
	}
	if got := tr.Verdict(); got != 0 {
		t.Errorf("verdict = %d, want 0", got)
	}
}

func TestSingleSampleNoVerdict(t *testing.T) {
	tr := NewTracker(10)
	tr.Push(100)
	if got := tr.Verdict(); got != 0 {
		t.Errorf("verdict with one sample = %d, want 0", got)
	}
}

func TestIncreasingTrendsUp(t *testing.T) {
	tr := NewTracker(10)
	for v := 1; v <= 10; v++ {
		tr.Push(v)
		if v >= 2 {
			if got := tr.Verdict(); got != 1 {
				t.Fatalf("verdict after pushing 1..%d = %d, want +1", v, got)
			}
		}
	}
}

func TestDecreasingTrendsDown(t *testing.T) {
	tr := NewTracker(10)
	for v := 10; v >= 1; v-- {
		tr.Push(v)
	}
	if got := tr.Verdict(); got != -1 {
		t.Errorf("verdict = %d, want -1", got)
	}
}

func TestMeanTracksWindow(t *testing.T) {
	tr := NewTracker(4)
	for _, v := range []int{2, 4, 6, 8} {
		tr.Push(v)
	}
	if got := tr.Mean(); got != 5 {
		t.Errorf("mean = %.2f, want 5", got)
	}
	// Overwrites the oldest sample (2): window is now 4, 6, 8, 10.
	tr.Push(10)
	if got := tr.Mean(); got != 7 {
		t.Errorf("mean after wrap = %.2f, want 7", got)
	}
}

func TestFlatWithinEpsilon(t *testing.T) {
	tr := NewTracker(10)
	// Constant input: both halves average 5 and differ by 0 < epsilon.
	for i := 0; i < 10; i++ {
		tr.Push(5)
	}
	if got := tr.Verdict(); got != 0 {
		t.Errorf("verdict = %d, want 0 for constant input", got)
	}
}
