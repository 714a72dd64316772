package mig

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// steadyCheckStride is how often (in power indices) the cache compares
// consecutive powers for convergence. The stride-10 cadence with a strict
// zero-difference test is preserved for behavioral compatibility even
// though it is numerically fragile: periodic chains never trigger it, and
// chains hovering near but not at convergence keep extending.
const steadyCheckStride = 10

// SteadyUnknown is the SteadyN sentinel while steady state has not been
// detected.
const SteadyUnknown = -1

// powerCache is the lazily extended sequence [R⁰, R¹, R², …] for one
// variant of the transition matrix, together with an element-wise running
// maximum over all computed powers and a steady-state flag.
type powerCache struct {
	powers  []*mat.Dense
	ceiling *mat.Dense
	steady  bool
}

// reset discards all cached powers and reseeds the sequence with R⁰ = I.
func (pc *powerCache) reset(n int) {
	pc.powers = pc.powers[:0]
	pc.powers = append(pc.powers, identity(n))
	pc.ceiling = identity(n)
	pc.steady = false
}

func (m *Model) cacheFor(symmetric bool) (*powerCache, *mat.Dense) {
	if symmetric {
		return &m.powSym, m.rSym
	}
	return &m.pow, m.r
}

// PowerAt returns Rⁿ (the n-th power of the uniformized transition matrix;
// of its symmetrized variant when symmetric is true). Previously computed
// powers are served from the cache and never recomputed. Once the variant
// has reached steady state, requests past the cached range return the
// converged power regardless of n: all higher powers are treated as
// identical, a deliberate approximation for the convolution use case.
//
// Extending the cache costs one matrix multiplication per missing power.
// Every steadyCheckStride-th newly computed power is compared element-wise
// against its predecessor; a maximum absolute difference that is not
// strictly positive marks the variant steady and stops the extension.
//
// Precondition: Mu(symmetric) > 0. The returned matrix must not be mutated.
func (m *Model) PowerAt(n int, symmetric bool) *mat.Dense {
	m.rebuildIfDirty()
	pc, r := m.cacheFor(symmetric)

	if n < len(pc.powers) {
		return pc.powers[n]
	}
	if pc.steady {
		return pc.powers[len(pc.powers)-1]
	}

	for k := len(pc.powers); k <= n; k++ {
		prev := pc.powers[k-1]
		next := mat.NewDense(m.nDemes, m.nDemes, nil)
		next.Mul(prev, r)
		pc.powers = append(pc.powers, next)
		elementwiseMaxInto(pc.ceiling, next)

		if k%steadyCheckStride == 0 {
			if !(maxAbsDiff(next, prev) > 0) {
				pc.steady = true
				return next
			}
		}
	}
	return pc.powers[n]
}

// PowerCeiling returns the element-wise running maximum over all computed
// powers of the variant once it has reached steady state, bounding every
// entry of every power. Before steady state it returns a matrix of all
// ones: a conservative, uninformative bound. Does not trigger a rebuild.
func (m *Model) PowerCeiling(symmetric bool) *mat.Dense {
	pc, _ := m.cacheFor(symmetric)
	if pc.steady {
		return pc.ceiling
	}
	ones := mat.NewDense(m.nDemes, m.nDemes, nil)
	for i := 0; i < m.nDemes; i++ {
		for j := 0; j < m.nDemes; j++ {
			ones.Set(i, j, 1)
		}
	}
	return ones
}

// SteadyN returns the smallest power index known to be at or past steady
// state for the variant, or SteadyUnknown while convergence has not been
// observed. Does not trigger a rebuild.
func (m *Model) SteadyN(symmetric bool) int {
	pc, _ := m.cacheFor(symmetric)
	if !pc.steady {
		return SteadyUnknown
	}
	return len(pc.powers)
}

// elementwiseMaxInto raises each entry of dst to the matching entry of src
// where src is larger.
func elementwiseMaxInto(dst, src *mat.Dense) {
	d := dst.RawMatrix().Data
	s := src.RawMatrix().Data
	for k := range d {
		if s[k] > d[k] {
			d[k] = s[k]
		}
	}
}

// maxAbsDiff returns the maximum absolute element-wise difference between
// two matrices of identical shape.
func maxAbsDiff(a, b *mat.Dense) float64 {
	da := a.RawMatrix().Data
	db := b.RawMatrix().Data
	var max float64
	for k := range da {
		if d := math.Abs(da[k] - db[k]); d > max {
			max = d
		}
	}
	return max
}
