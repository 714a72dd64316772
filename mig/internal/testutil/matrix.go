// Package testutil provides shared matrix assertion helpers used across the
// migsim engine test packages.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// AssertMatClose fails the test if any entry of got differs from the
// matching entry of want by more than tol, or if the shapes differ.
func AssertMatClose(t *testing.T, want, got mat.Matrix, tol float64) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	if wr != gr || wc != gc {
		t.Fatalf("matrix shape: got %dx%d, want %dx%d", gr, gc, wr, wc)
	}
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			if diff := math.Abs(want.At(i, j) - got.At(i, j)); diff > tol {
				t.Errorf("entry (%d,%d): got %v, want %v (diff %v > tol %v)",
					i, j, got.At(i, j), want.At(i, j), diff, tol)
			}
		}
	}
}

// AssertRowSums fails the test if any row of m does not sum to want within
// tol.
func AssertRowSums(t *testing.T, m mat.Matrix, want, tol float64) {
	t.Helper()
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		var sum float64
		for j := 0; j < cols; j++ {
			sum += m.At(i, j)
		}
		if math.Abs(sum-want) > tol {
			t.Errorf("row %d sums to %v, want %v within %v", i, sum, want, tol)
		}
	}
}

// Identity returns the n×n identity matrix.
func Identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
