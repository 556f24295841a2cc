// Package matrix wraps github.com/edp1096/sparse as the MNA assembler's
// staging area: a triplet-with-duplicate-sum sparse matrix that components
// stamp into, convertible to a dense gonum matrix for the direct solvers and
// to row/col/value triplets for the iterative ones. It generalizes
// edp1096-toy-spice/pkg/matrix/circuit.go, which wraps the same library for
// the same purpose but only ever needs the library's own direct solve.
package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
	"github.com/icmhg/spicesim/internal/consts"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a square N x N staging matrix plus an N-length RHS, addressed
// with 0-based indices at the public API (the wrapped library is 1-based
// internally).
type Matrix struct {
	size int
	sp   *sparse.Matrix
	rhs  []float64 // 0-based, length size
}

// New allocates a size x size zero matrix.
func New(size int) (*Matrix, error) {
	if size <= 0 {
		return nil, fmt.Errorf("matrix: invalid size %d", size)
	}

	cfg := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	sp, err := sparse.Create(int64(size), cfg)
	if err != nil {
		return nil, fmt.Errorf("matrix: creating sparse matrix: %w", err)
	}

	m := &Matrix{size: size, sp: sp, rhs: make([]float64, size)}
	// Preallocate every entry so GetElement never needs to fill in later —
	// MNA matrices for circuits of the size this core targets are small
	// enough that dense preallocation costs nothing and keeps stamping
	// branch-free, exactly as edp1096-toy-spice's SetupElements does.
	for i := 1; i <= size; i++ {
		for j := 1; j <= size; j++ {
			sp.GetElement(int64(i), int64(j))
		}
	}
	return m, nil
}

// Size returns N.
func (m *Matrix) Size() int { return m.size }

// AddElement accumulates value into A[i,j], 0-based. Out-of-range ground
// indices are silently dropped, matching the MNA stamping convention in
// spec §4.1 (a stamp row/column pointing at ground is omitted).
func (m *Matrix) AddElement(i, j int, value float64) {
	if i < 0 || j < 0 || i >= m.size || j >= m.size {
		return
	}
	m.sp.GetElement(int64(i+1), int64(j+1)).Real += value
}

// AddRHS accumulates value into b[i], 0-based.
func (m *Matrix) AddRHS(i int, value float64) {
	if i < 0 || i >= m.size {
		return
	}
	m.rhs[i] += value
}

// RHS returns the accumulated right-hand side.
func (m *Matrix) RHS() []float64 {
	out := make([]float64, m.size)
	copy(out, m.rhs)
	return out
}

// Clear zeroes both the matrix and the RHS, ready for the next stamp pass.
func (m *Matrix) Clear() {
	m.sp.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

// Dense compresses the staged matrix into a gonum dense matrix, dropping
// any entry below the hygiene threshold (spec §4.1's numerical hygiene
// rule), for consumption by the direct (LU/QR) solvers.
func (m *Matrix) Dense() *mat.Dense {
	d := mat.NewDense(m.size, m.size, nil)
	for i := 1; i <= m.size; i++ {
		for j := 1; j <= m.size; j++ {
			v := m.sp.GetElement(int64(i), int64(j)).Real
			if v != 0 && absf(v) >= consts.StampDropThreshold {
				d.Set(i-1, j-1, v)
			}
		}
	}
	return d
}

// Triplets compresses the staged matrix into row/col/value triplets (0-based
// rows/cols), dropping entries below the hygiene threshold, for consumption
// by the iterative (CG/BiCGSTAB) solvers' matrix-vector product.
func (m *Matrix) Triplets() (rows, cols []int, vals []float64) {
	for i := 1; i <= m.size; i++ {
		for j := 1; j <= m.size; j++ {
			v := m.sp.GetElement(int64(i), int64(j)).Real
			if v != 0 && absf(v) >= consts.StampDropThreshold {
				rows = append(rows, i-1)
				cols = append(cols, j-1)
				vals = append(vals, v)
			}
		}
	}
	return rows, cols, vals
}

// IsSymmetric reports whether the staged matrix is symmetric within tol,
// the probe the solver's auto-select policy runs (spec §4.2).
func (m *Matrix) IsSymmetric(tol float64) bool {
	for i := 1; i <= m.size; i++ {
		for j := i + 1; j <= m.size; j++ {
			a := m.sp.GetElement(int64(i), int64(j)).Real
			b := m.sp.GetElement(int64(j), int64(i)).Real
			if absf(a-b) > tol {
				return false
			}
		}
	}
	return true
}

// Destroy releases the wrapped sparse matrix's internal storage.
func (m *Matrix) Destroy() {
	if m.sp != nil {
		m.sp.Destroy()
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
