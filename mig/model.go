package mig

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultModelName is used in trace column headers when no name is set.
const DefaultModelName = "migModel"

// Model is a continuous-time Markov migration model over a fixed set of
// demes. The packed rate vector, the population sizes and the optional
// indicator flags are the single source of truth; the generator, the
// uniformized transition matrix and the power caches are derived lazily and
// invalidated by every mutation.
//
// The generator follows the row-wise backward-time convention: Q[i][j] for
// i ≠ j is the (masked) rate from deme i to deme j, Q[i][i] is the negative
// row sum, so rows of Q sum to zero and rows of R = I + Q/mu sum to one.
//
// NOT thread-safe. Must be owned by a single goroutine.
type Model struct {
	name   string
	nDemes int
	layout Layout

	rates    []float64
	flags    []bool // nil when no indicator mask is configured
	popSizes []float64

	totalPopSize float64
	mu, muSym    float64
	q, qSym      *mat.Dense
	r, rSym      *mat.Dense
	pow, powSym  powerCache

	dirty bool
}

// NewModel constructs a Model from a packed rate vector, per-deme population
// sizes and an optional indicator mask (nil for none). The rate-vector
// length selects the storage layout; a length matching no layout, a mask of
// the wrong length, an empty population-size vector, a non-positive
// population size or a negative rate is a fatal configuration error.
//
// The model takes ownership of the slices. The initial state is dirty; the
// first derived-value read triggers the build.
func NewModel(rates, popSizes []float64, flags []bool) (*Model, error) {
	if len(popSizes) == 0 {
		return nil, fmt.Errorf("population size vector is empty")
	}
	for i, p := range popSizes {
		if p <= 0 {
			return nil, fmt.Errorf("population size for deme %d is %g; want > 0", i, p)
		}
	}
	nDemes := len(popSizes)
	layout, err := inferLayout(nDemes, len(rates))
	if err != nil {
		return nil, err
	}
	for k, r := range rates {
		if r < 0 {
			return nil, fmt.Errorf("rate vector element %d is %g; want >= 0", k, r)
		}
	}
	if flags != nil && len(flags) != len(rates) {
		return nil, fmt.Errorf("rate flags array has %d elements; want %d to match the rate vector",
			len(flags), len(rates))
	}
	return &Model{
		name:     DefaultModelName,
		nDemes:   nDemes,
		layout:   layout,
		rates:    rates,
		flags:    flags,
		popSizes: popSizes,
		dirty:    true,
	}, nil
}

// NDemes returns the number of demes in the migration model.
func (m *Model) NDemes() int { return m.nDemes }

// Layout returns the storage layout inferred from the rate vector's length.
func (m *Model) Layout() Layout { return m.layout }

// Name returns the model name used in trace column headers.
func (m *Model) Name() string { return m.name }

// SetName overrides the model name used in trace column headers.
func (m *Model) SetName(name string) { m.name = name }

// HasRateFlags reports whether an indicator mask is configured.
func (m *Model) HasRateFlags() bool { return m.flags != nil }

// NumRates returns the number of slots in the packed rate vector.
func (m *Model) NumRates() int { return len(m.rates) }

// Rate returns the migration rate from deme i to deme j as seen by the
// model: zero on the diagonal, and zero when the pair's indicator flag is
// switched off.
func (m *Model) Rate(i, j int) float64 {
	if i == j {
		return 0
	}
	offset := m.layout.offset(m.nDemes, i, j)
	if m.flags != nil && !m.flags[offset] {
		return 0
	}
	return m.rates[offset]
}

// RateRaw returns the stored migration rate from deme i to deme j,
// ignoring the indicator mask. Disabled rates stay visible here, which is
// what the reporting contract wants.
func (m *Model) RateRaw(i, j int) float64 {
	if i == j {
		return 0
	}
	return m.rates[m.layout.offset(m.nDemes, i, j)]
}

// RateFlag returns the indicator flag for the pair (i, j): false on the
// diagonal, true everywhere when no mask is configured.
func (m *Model) RateFlag(i, j int) bool {
	if i == j {
		return false
	}
	if m.flags == nil {
		return true
	}
	return m.flags[m.layout.offset(m.nDemes, i, j)]
}

// SetRate writes a migration rate through the layout codec and marks the
// model dirty. Writing the diagonal is a no-op, mirroring the read side.
func (m *Model) SetRate(i, j int, rate float64) {
	if i == j {
		return
	}
	m.rates[m.layout.offset(m.nDemes, i, j)] = rate
	m.dirty = true
}

// SetRateFlag toggles the indicator flag for the pair (i, j) and marks the
// model dirty. Calling this on a model without a configured mask is a
// defect in the caller. Writing the diagonal is a no-op.
func (m *Model) SetRateFlag(i, j int, flag bool) {
	if m.flags == nil {
		panic("programmer error: set indicator flag on migration model without a configured mask")
	}
	if i == j {
		return
	}
	m.flags[m.layout.offset(m.nDemes, i, j)] = flag
	m.dirty = true
}

// PopSize returns the effective population size of deme i.
func (m *Model) PopSize(i int) float64 { return m.popSizes[i] }

// SetPopSize sets the effective population size of deme i and marks the
// model dirty.
func (m *Model) SetPopSize(i int, size float64) {
	m.popSizes[i] = size
	m.dirty = true
}

// TotalPopSize returns the total effective population size across demes.
func (m *Model) TotalPopSize() float64 {
	m.rebuildIfDirty()
	return m.totalPopSize
}

// Mu returns the uniformization constant: the largest absolute diagonal
// entry of the generator (of the symmetrized generator when symmetric is
// true). Zero when no migration pathway is active; uniformization is then
// undefined and callers must not request transition matrices or powers.
func (m *Model) Mu(symmetric bool) float64 {
	m.rebuildIfDirty()
	if symmetric {
		return m.muSym
	}
	return m.mu
}

// Generator returns the infinitesimal generator Q, or the symmetrized
// generator Qsym when symmetric is true. The matrix is returned by
// reference and must not be mutated by the caller.
func (m *Model) Generator(symmetric bool) *mat.Dense {
	m.rebuildIfDirty()
	if symmetric {
		return m.qSym
	}
	return m.q
}

// Transition returns the uniformized transition matrix R = I + Q/mu (Rsym
// when symmetric is true). Precondition: Mu(symmetric) > 0. The matrix is
// returned by reference and must not be mutated by the caller.
func (m *Model) Transition(symmetric bool) *mat.Dense {
	m.rebuildIfDirty()
	if symmetric {
		return m.rSym
	}
	return m.r
}

// MarkDirty invalidates all derived state. Called by an external
// proposal/accept-reject mechanism after restoring parameter values it
// mutated outside the setter path.
func (m *Model) MarkDirty() { m.dirty = true }

// rebuildIfDirty brings every derived field in line with the raw parameter
// vectors: total population size, Q/Qsym, mu/muSym, R/Rsym, and freshly
// reset power caches. No-op when clean.
func (m *Model) rebuildIfDirty() {
	if !m.dirty {
		return
	}
	n := m.nDemes

	m.totalPopSize = floats.Sum(m.popSizes)

	m.mu = 0
	m.muSym = 0
	m.q = mat.NewDense(n, n, nil)
	m.qSym = mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		var rowSum, rowSumSym float64
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			rate := m.Rate(i, j)
			m.q.Set(i, j, rate)
			rowSum += rate

			// Symmetrization feeds a spectral use case and deliberately
			// ignores the indicator mask.
			sym := 0.5 * (m.RateRaw(i, j) + m.RateRaw(j, i))
			m.qSym.Set(i, j, sym)
			rowSumSym += sym
		}
		m.q.Set(i, i, -rowSum)
		m.qSym.Set(i, i, -rowSumSym)
		if rowSum > m.mu {
			m.mu = rowSum
		}
		if rowSumSym > m.muSym {
			m.muSym = rowSumSym
		}
	}

	m.r = uniformize(m.q, m.mu)
	m.rSym = uniformize(m.qSym, m.muSym)

	m.pow.reset(n)
	m.powSym.reset(n)

	m.dirty = false
}

// uniformize forms R = I + Q/mu. With mu == 0 the result is undefined
// (NaN entries); guarding against that is the caller's job.
func uniformize(q *mat.Dense, mu float64) *mat.Dense {
	n, _ := q.Dims()
	r := mat.NewDense(n, n, nil)
	r.Scale(1/mu, q)
	for i := 0; i < n; i++ {
		r.Set(i, i, r.At(i, i)+1)
	}
	return r
}

// identity returns the n×n identity matrix.
func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
