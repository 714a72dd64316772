package mig

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/migsim/migsim/mig/internal/testutil"
)

// convergingModel returns a 2-deme aperiodic chain: rates [0.2, 0.1] give
// R = [[0, 1], [0.5, 0.5]], whose powers contract geometrically (second
// eigenvalue -0.5) and become numerically identical well before index 200.
func convergingModel(t *testing.T) *Model {
	t.Helper()
	return mustModel(t, []float64{0.2, 0.1}, []float64{1, 1}, nil)
}

func TestPowerAt_ZeroIsIdentity(t *testing.T) {
	m := convergingModel(t)
	testutil.AssertMatClose(t, testutil.Identity(2), m.PowerAt(0, false), matTol)
	testutil.AssertMatClose(t, testutil.Identity(2), m.PowerAt(0, true), matTol)
}

func TestPowerAt_SquareMatchesMatrixProduct(t *testing.T) {
	m := convergingModel(t)

	for _, symmetric := range []bool{false, true} {
		r := m.Transition(symmetric)
		var want mat.Dense
		want.Mul(r, r)
		testutil.AssertMatClose(t, &want, m.PowerAt(2, symmetric), matTol)
	}
}

func TestPowerAt_CachedPowersAreNeverRecomputed(t *testing.T) {
	// GIVEN a cache extended to index 5
	m := convergingModel(t)
	third := m.PowerAt(3, false)
	m.PowerAt(5, false)

	// WHEN an in-range power is requested again
	// THEN the same instance is served
	if m.PowerAt(3, false) != third {
		t.Errorf("PowerAt(3) recomputed a cached power")
	}
}

func TestPowerAt_SteadyStateDetection(t *testing.T) {
	// The stride-10 strict zero-difference check is a known approximation;
	// this chain contracts fast enough to hit exact equality in doubles.
	m := convergingModel(t)
	m.PowerAt(200, false)

	steadyN := m.SteadyN(false)
	if steadyN == SteadyUnknown {
		t.Fatalf("aperiodic contracting chain did not reach steady state by index 200")
	}
	if (steadyN-1)%steadyCheckStride != 0 {
		t.Errorf("steady index %d not detected on the stride-%d cadence", steadyN-1, steadyCheckStride)
	}

	// Every power at or past the threshold is the converged matrix.
	converged := m.PowerAt(steadyN-1, false)
	for _, k := range []int{steadyN, steadyN + 7, steadyN + 500} {
		testutil.AssertMatClose(t, converged, m.PowerAt(k, false), 0)
	}
}

func TestPowerAt_SteadyStateShortCircuitsExtension(t *testing.T) {
	m := convergingModel(t)
	m.PowerAt(200, false)
	steadyN := m.SteadyN(false)
	if steadyN == SteadyUnknown {
		t.Fatalf("chain did not converge")
	}

	// A request far past convergence must not grow the cache.
	m.PowerAt(100000, false)
	if got := m.SteadyN(false); got != steadyN {
		t.Errorf("steady threshold moved from %d to %d after a past-convergence request", steadyN, got)
	}
}

func TestPowerCeiling_BeforeAndAfterSteadyState(t *testing.T) {
	m := convergingModel(t)

	// Before convergence: the conservative all-ones bound.
	ceiling := m.PowerCeiling(false)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if ceiling.At(i, j) != 1 {
				t.Fatalf("pre-steady ceiling entry (%d,%d) = %v, want 1", i, j, ceiling.At(i, j))
			}
		}
	}

	// After convergence: the running maximum bounds every computed power.
	m.PowerAt(200, false)
	steadyN := m.SteadyN(false)
	if steadyN == SteadyUnknown {
		t.Fatalf("chain did not converge")
	}
	ceiling = m.PowerCeiling(false)
	for k := 0; k < steadyN; k++ {
		power := m.PowerAt(k, false)
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				if power.At(i, j) > ceiling.At(i, j)+matTol {
					t.Errorf("power %d entry (%d,%d) = %v exceeds ceiling %v",
						k, i, j, power.At(i, j), ceiling.At(i, j))
				}
			}
		}
	}
}

func TestPowerCache_ResetOnMutation(t *testing.T) {
	// GIVEN a converged cache
	m := convergingModel(t)
	m.PowerAt(200, false)
	if m.SteadyN(false) == SteadyUnknown {
		t.Fatalf("chain did not converge")
	}

	// WHEN a rate changes
	m.SetRate(0, 1, 0.3)

	// THEN the steady flag does not survive the rebuild
	m.Transition(false)
	if got := m.SteadyN(false); got != SteadyUnknown {
		t.Errorf("steady flag survived invalidation: SteadyN = %d", got)
	}
}

func TestPowerCache_VariantsAreIndependent(t *testing.T) {
	// Rates [0.2, 0.1]: the plain and symmetrized chains differ, and
	// converging one variant must not mark the other steady.
	m := convergingModel(t)
	m.PowerAt(200, false)
	if m.SteadyN(false) == SteadyUnknown {
		t.Fatalf("plain variant did not converge")
	}
	if got := m.SteadyN(true); got != SteadyUnknown {
		t.Errorf("symmetrized variant marked steady without being extended: %d", got)
	}
}
