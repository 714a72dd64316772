package mig

import "fmt"

// Layout identifies how the packed rate vector stores the off-diagonal
// entries of the migration rate matrix. It is inferred once from the
// vector's length at construction and is fixed for the life of the model.
type Layout int

const (
	// LayoutSquare stores one independent value per ordered deme pair,
	// indexed row-major over the full n×n grid (diagonal slots exist in
	// storage but are never addressed). Vector length n².
	LayoutSquare Layout = iota
	// LayoutAsymmetric stores one value per ordered deme pair with the
	// diagonal omitted, row-major with the column index shifted past the
	// diagonal. Vector length n·(n−1).
	LayoutAsymmetric
	// LayoutSymmetric stores one value per unordered deme pair, shared by
	// both directions, packed by triangular index. Vector length n·(n−1)/2.
	LayoutSymmetric
)

func (l Layout) String() string {
	switch l {
	case LayoutSquare:
		return "square"
	case LayoutAsymmetric:
		return "asymmetric"
	case LayoutSymmetric:
		return "symmetric"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// inferLayout matches a rate-vector length against the recognized layouts
// for nDemes demes. Square is tried first, then asymmetric, then symmetric;
// for nDemes == 1 the asymmetric and symmetric lengths coincide at zero and
// the earlier match wins. Any other length is a fatal configuration error.
func inferLayout(nDemes, nRates int) (Layout, error) {
	switch nRates {
	case nDemes * nDemes:
		return LayoutSquare, nil
	case nDemes * (nDemes - 1):
		return LayoutAsymmetric, nil
	case nDemes * (nDemes - 1) / 2:
		return LayoutSymmetric, nil
	}
	return 0, fmt.Errorf("rate vector has %d elements; want %d (square), %d (asymmetric) or %d (symmetric) for %d demes",
		nRates, nDemes*nDemes, nDemes*(nDemes-1), nDemes*(nDemes-1)/2, nDemes)
}

// size returns the packed vector length required for nDemes demes.
func (l Layout) size(nDemes int) int {
	switch l {
	case LayoutSquare:
		return nDemes * nDemes
	case LayoutAsymmetric:
		return nDemes * (nDemes - 1)
	default:
		return nDemes * (nDemes - 1) / 2
	}
}

// offset maps the ordered deme pair (i, j), i ≠ j, to the pair's slot in
// the packed rate vector. Diagonal entries have no stored representation;
// requesting one is a defect in the caller, not a recoverable condition.
func (l Layout) offset(nDemes, i, j int) int {
	if i == j {
		panic("programmer error: requested rate array offset for diagonal element of migration rate matrix")
	}
	switch l {
	case LayoutSquare:
		return i*nDemes + j
	case LayoutAsymmetric:
		if j > i {
			j--
		}
		return i*(nDemes-1) + j
	default:
		if j < i {
			return i*(i-1)/2 + j
		}
		return j*(j-1)/2 + i
	}
}
