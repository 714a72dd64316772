package mig

import (
	"math"
	"math/rand"
)

// SamplePath forward-simulates one lineage's deme membership over a time
// interval of length t by uniformization: the number of jump events is
// Poisson(mu·t), and each jump moves the lineage according to its current
// row of the uniformized transition matrix (self-jumps included, which is
// what makes the jump count Poisson). Returns the number of jump events and
// the deme occupied at the end of the interval.
//
// Precondition: Mu(false) > 0, t ≥ 0 and 0 ≤ start < NDemes().
func (m *Model) SamplePath(start int, t float64, rng *rand.Rand) (jumps, end int) {
	r := m.Transition(false)
	jumps = poissonRand(m.Mu(false)*t, rng)
	end = start
	for e := 0; e < jumps; e++ {
		u := rng.Float64()
		var cum float64
		for j := 0; j < m.nDemes; j++ {
			cum += r.At(end, j)
			if u < cum {
				end = j
				break
			}
		}
	}
	return jumps, end
}

// poissonRand draws from Poisson(lambda) using Knuth's multiplication
// method, switching to a normal approximation for large lambda where the
// product would underflow. distuv draws are not used here because they
// need an x/exp rand source, while the chain harness hands out
// math/rand generators.
func poissonRand(lambda float64, rng *rand.Rand) int {
	if lambda <= 0 {
		return 0
	}
	if lambda > 30 {
		k := math.Round(lambda + math.Sqrt(lambda)*rng.NormFloat64())
		if k < 0 {
			return 0
		}
		return int(k)
	}
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}
