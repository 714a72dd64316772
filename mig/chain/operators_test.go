package chain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/migsim/migsim/mig"
)

func newTestModel(t *testing.T, flags []bool) *mig.Model {
	t.Helper()
	m, err := mig.NewModel([]float64{0.5, 1.5}, []float64{1, 2}, flags)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func rateSnapshot(m *mig.Model) [2]float64 {
	return [2]float64{m.RateRaw(0, 1), m.RateRaw(1, 0)}
}

func TestRateScale_ProposeAndRestore(t *testing.T) {
	m := newTestModel(t, nil)
	rng := rand.New(rand.NewSource(1))
	op := &RateScale{Factor: 0.8}

	before := rateSnapshot(m)
	logHastings, restore := op.Propose(m, rng)

	// Exactly one rate changed, by a factor inside [0.8, 1.25], and the
	// Hastings term is the negative log of that factor.
	after := rateSnapshot(m)
	changed := -1
	for k := range after {
		if after[k] != before[k] {
			changed = k
		}
	}
	if changed < 0 {
		t.Fatalf("no rate changed")
	}
	scale := after[changed] / before[changed]
	if scale < 0.8 || scale > 1/0.8 {
		t.Errorf("scale %v outside [0.8, 1.25]", scale)
	}
	if math.Abs(logHastings+math.Log(scale)) > 1e-12 {
		t.Errorf("logHastings = %v, want %v", logHastings, -math.Log(scale))
	}

	// Restore returns the exact prior value.
	restore()
	if got := rateSnapshot(m); got != before {
		t.Errorf("restore: rates %v, want %v", got, before)
	}
}

func TestRateRandomWalk_ReflectsAtZero(t *testing.T) {
	m := newTestModel(t, nil)
	rng := rand.New(rand.NewSource(3))
	op := &RateRandomWalk{Window: 5}

	// With a window much wider than the rates, reflection must keep every
	// proposal non-negative.
	for k := 0; k < 200; k++ {
		logHastings, restore := op.Propose(m, rng)
		if logHastings != 0 {
			t.Fatalf("random walk logHastings = %v, want 0", logHastings)
		}
		if m.RateRaw(0, 1) < 0 || m.RateRaw(1, 0) < 0 {
			t.Fatalf("negative rate after reflected walk: %v", rateSnapshot(m))
		}
		restore()
	}
}

func TestPopSizeScale_ProposeAndRestore(t *testing.T) {
	m := newTestModel(t, nil)
	rng := rand.New(rand.NewSource(5))
	op := &PopSizeScale{Factor: 0.8}

	before := [2]float64{m.PopSize(0), m.PopSize(1)}
	_, restore := op.Propose(m, rng)

	after := [2]float64{m.PopSize(0), m.PopSize(1)}
	if after == before {
		t.Fatalf("no population size changed")
	}

	restore()
	if got := [2]float64{m.PopSize(0), m.PopSize(1)}; got != before {
		t.Errorf("restore: pop sizes %v, want %v", got, before)
	}
}

func TestFlagFlip_TogglesAndRestores(t *testing.T) {
	m := newTestModel(t, []bool{true, false})
	rng := rand.New(rand.NewSource(9))
	op := &FlagFlip{}

	before := [2]bool{m.RateFlag(0, 1), m.RateFlag(1, 0)}
	_, restore := op.Propose(m, rng)

	after := [2]bool{m.RateFlag(0, 1), m.RateFlag(1, 0)}
	flipped := 0
	for k := range after {
		if after[k] != before[k] {
			flipped++
		}
	}
	if flipped != 1 {
		t.Fatalf("flipped %d flags, want 1", flipped)
	}

	restore()
	if got := [2]bool{m.RateFlag(0, 1), m.RateFlag(1, 0)}; got != before {
		t.Errorf("restore: flags %v, want %v", got, before)
	}
}

func TestOperators_MutationInvalidatesModel(t *testing.T) {
	// A proposal must dirty the model so the next derived read rebuilds.
	m := newTestModel(t, nil)
	rng := rand.New(rand.NewSource(11))
	muBefore := m.Mu(false)

	op := &RateScale{Factor: 0.5}
	var muChanged bool
	for k := 0; k < 50 && !muChanged; k++ {
		_, restore := op.Propose(m, rng)
		if m.Mu(false) != muBefore {
			muChanged = true
		}
		restore()
	}
	if !muChanged {
		t.Errorf("mu never changed across 50 scale proposals; invalidation broken")
	}
	if got := m.Mu(false); got != muBefore {
		t.Errorf("mu after restores = %v, want %v", got, muBefore)
	}
}

func TestRandomPair_NeverDiagonal(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for n := 2; n <= 5; n++ {
		for k := 0; k < 500; k++ {
			i, j := randomPair(n, rng)
			if i == j || i < 0 || j < 0 || i >= n || j >= n {
				t.Fatalf("randomPair(%d) = (%d, %d)", n, i, j)
			}
		}
	}
}
