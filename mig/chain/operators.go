package chain

import (
	"math"
	"math/rand"

	"github.com/migsim/migsim/mig"
)

// Operator proposes a mutation of the migration model.
type Operator interface {
	// Name identifies the operator in acceptance statistics.
	Name() string
	// Propose mutates the model in place through its setters and returns
	// the log Hastings ratio together with a restore closure that undoes
	// the mutation through the same setter path.
	Propose(m *mig.Model, rng *rand.Rand) (logHastings float64, restore func())
}

// randomPair draws an ordered off-diagonal deme pair uniformly.
func randomPair(n int, rng *rand.Rand) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// drawScale draws a multiplier uniformly from [factor, 1/factor].
// The log Hastings ratio for scaling a single value is -log(multiplier).
func drawScale(factor float64, rng *rand.Rand) float64 {
	return factor + rng.Float64()*(1/factor-factor)
}

// RateScale rescales one randomly chosen migration rate by a multiplier
// drawn from [Factor, 1/Factor].
type RateScale struct {
	Factor float64
}

func (o *RateScale) Name() string { return "rateScale" }

func (o *RateScale) Propose(m *mig.Model, rng *rand.Rand) (float64, func()) {
	i, j := randomPair(m.NDemes(), rng)
	old := m.RateRaw(i, j)
	scale := drawScale(o.Factor, rng)
	m.SetRate(i, j, old*scale)
	return -math.Log(scale), func() { m.SetRate(i, j, old) }
}

// RateRandomWalk perturbs one randomly chosen migration rate by a uniform
// additive step of half-width Window, reflected at zero to keep rates
// non-negative. The reflection is symmetric, so the Hastings term is zero.
type RateRandomWalk struct {
	Window float64
}

func (o *RateRandomWalk) Name() string { return "rateRandomWalk" }

func (o *RateRandomWalk) Propose(m *mig.Model, rng *rand.Rand) (float64, func()) {
	i, j := randomPair(m.NDemes(), rng)
	old := m.RateRaw(i, j)
	next := old + (2*rng.Float64()-1)*o.Window
	if next < 0 {
		next = -next
	}
	m.SetRate(i, j, next)
	return 0, func() { m.SetRate(i, j, old) }
}

// PopSizeScale rescales one randomly chosen deme population size by a
// multiplier drawn from [Factor, 1/Factor].
type PopSizeScale struct {
	Factor float64
}

func (o *PopSizeScale) Name() string { return "popSizeScale" }

func (o *PopSizeScale) Propose(m *mig.Model, rng *rand.Rand) (float64, func()) {
	i := rng.Intn(m.NDemes())
	old := m.PopSize(i)
	scale := drawScale(o.Factor, rng)
	m.SetPopSize(i, old*scale)
	return -math.Log(scale), func() { m.SetPopSize(i, old) }
}

// FlagFlip toggles one randomly chosen indicator flag. Only valid on
// models with a configured mask.
type FlagFlip struct{}

func (o *FlagFlip) Name() string { return "flagFlip" }

func (o *FlagFlip) Propose(m *mig.Model, rng *rand.Rand) (float64, func()) {
	i, j := randomPair(m.NDemes(), rng)
	old := m.RateFlag(i, j)
	m.SetRateFlag(i, j, !old)
	return 0, func() { m.SetRateFlag(i, j, old) }
}
