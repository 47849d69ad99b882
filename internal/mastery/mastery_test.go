package mastery

import (
	"math"
	"testing"
	"time"
)

func TestUpdate_FirstAttemptTakesScore(t *testing.T) {
	m := New("Thermodynamics")
	now := time.Now()

	m.Update(80, nil, now)

	if m.Score != 80 {
		t.Errorf("expected score 80, got %f", m.Score)
	}
	if m.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", m.Attempts)
	}
	if m.LastAttempted == nil || !m.LastAttempted.Equal(now) {
		t.Error("expected last attempted to be set")
	}
}

func TestUpdate_WeightedAverage(t *testing.T) {
	m := New("Optics")
	now := time.Now()

	m.Update(100, nil, now)
	// attempts=1: old weight 1/2 → (100+40)/2 = 70
	m.Update(40, nil, now)

	if math.Abs(m.Score-70) > 1e-9 {
		t.Errorf("expected score 70, got %f", m.Score)
	}
}

func TestUpdate_ConvergesToConstantScore(t *testing.T) {
	m := New("Kinematics")
	now := time.Now()

	m.Update(20, nil, now)
	const target = 90.0
	for range 12 {
		m.Update(target, nil, now)
	}

	// With the old weight capped at 3/(n+1), repeated identical scores
	// converge on the input.
	if math.Abs(m.Score-target) > 5 {
		t.Errorf("expected score near %f after repeated updates, got %f", target, m.Score)
	}
}

func TestUpdate_BoundsAndMonotonicAttempts(t *testing.T) {
	m := New("Electrostatics")
	now := time.Now()

	scores := []float64{0, 100, 33.3, 0, 100, 50, 0, 0, 100}
	for i, s := range scores {
		m.Update(s, nil, now)
		if m.Score < 0 || m.Score > 100 {
			t.Fatalf("score out of bounds after update %d: %f", i+1, m.Score)
		}
		if m.Attempts != i+1 {
			t.Fatalf("expected %d attempts, got %d", i+1, m.Attempts)
		}
	}
}

func TestUpdate_KeepsDuplicateMisconceptions(t *testing.T) {
	m := New("Genetics")
	now := time.Now()

	m.Update(50, []string{"confuses genotype with phenotype"}, now)
	m.Update(60, []string{"confuses genotype with phenotype", "ignores codominance"}, now)

	if len(m.Misconceptions) != 3 {
		t.Errorf("expected 3 misconception entries (duplicates kept), got %d", len(m.Misconceptions))
	}
}

func TestRecentMisconceptions(t *testing.T) {
	m := New("Ecology")
	now := time.Now()
	m.Update(40, []string{"a", "b", "c", "d"}, now)

	recent := m.RecentMisconceptions(3)
	if len(recent) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(recent))
	}
	if recent[0] != "b" || recent[2] != "d" {
		t.Errorf("expected newest three entries, got %v", recent)
	}

	if got := m.RecentMisconceptions(0); got != nil {
		t.Errorf("expected nil for n=0, got %v", got)
	}
}
