package chain

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/migsim/migsim/mig"
)

// Prior is the sampling target: independent Exponential priors on every
// stored migration rate and population size, and Bernoulli(0.5) on the
// indicator flags. The Bernoulli factor is constant across flag states and
// cancels in Metropolis ratios, so it does not appear in LogDensity.
type Prior struct {
	RateMean    float64
	PopSizeMean float64
}

// LogDensity returns the unnormalized log prior density of the model's
// current raw parameter state. Raw rates are used so switched-off pathways
// keep contributing, matching how the mask semantics retain their values.
func (p Prior) LogDensity(m *mig.Model) float64 {
	rateDist := distuv.Exponential{Rate: 1 / p.RateMean}
	popDist := distuv.Exponential{Rate: 1 / p.PopSizeMean}

	var logDensity float64
	n := m.NDemes()
	for i := 0; i < n; i++ {
		logDensity += popDist.LogProb(m.PopSize(i))
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			// Each stored slot contributes once: the symmetric layout
			// shares one slot per unordered pair.
			if m.Layout() == mig.LayoutSymmetric && j < i {
				continue
			}
			logDensity += rateDist.LogProb(m.RateRaw(i, j))
		}
	}
	return logDensity
}
