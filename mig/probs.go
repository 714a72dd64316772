package mig

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// poissonTailTol is the Poisson tail mass left unaccumulated before the
// uniformization series is truncated.
const poissonTailTol = 1e-12

// maxPoissonTerms caps the number of series terms regardless of tail mass,
// bounding the work for very large mu·t.
const maxPoissonTerms = 1 << 16

// TransitionProbs returns the interval transition probability matrix
//
//	P(t) = Σ_k Poisson(k; mu·t) · Rᵏ
//
// by accumulating Poisson-weighted cached powers of the uniformized
// transition matrix (of its symmetrized variant when symmetric is true).
// The series is truncated once the accumulated Poisson mass reaches
// 1 − poissonTailTol or maxPoissonTerms terms, whichever is first. When the
// power cache reaches steady state at or below the current term, the whole
// remaining tail mass multiplies the converged power.
//
// P(0) is exactly the identity. Precondition: Mu(symmetric) > 0 and t ≥ 0.
func (m *Model) TransitionProbs(t float64, symmetric bool) *mat.Dense {
	n := m.nDemes
	if t == 0 {
		return identity(n)
	}

	pois := distuv.Poisson{Lambda: m.Mu(symmetric) * t}
	p := mat.NewDense(n, n, nil)
	var term mat.Dense
	var accumulated float64
	for k := 0; accumulated < 1-poissonTailTol && k < maxPoissonTerms; k++ {
		power := m.PowerAt(k, symmetric)
		if steadyN := m.SteadyN(symmetric); steadyN != SteadyUnknown && k >= steadyN-1 {
			term.Scale(1-accumulated, power)
			p.Add(p, &term)
			break
		}
		weight := pois.Prob(float64(k))
		term.Scale(weight, power)
		p.Add(p, &term)
		accumulated += weight
	}
	return p
}
