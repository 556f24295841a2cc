package solver

import (
	"github.com/icmhg/spicesim/pkg/matrix"
	"gonum.org/v1/gonum/mat"
)

// solveLU runs dense LU with partial pivoting via gonum.org/v1/gonum/mat —
// gonum.org/v1/gonum is already pulled into the pack's dependency graph
// through RuiCat-circuit's gonum.org/v1/plot, and is the standard ecosystem
// library for exactly this job, so it is promoted to a direct dependency
// here rather than hand-rolled. Two triangular solves, as spec §4.2 states.
func solveLU(m *matrix.Matrix) ([]float64, Stats, error) {
	a := m.Dense()
	b := mat.NewVecDense(m.Size(), m.RHS())

	var lu mat.LU
	lu.Factorize(a)

	if isSingularLU(&lu) {
		return nil, Stats{Method: LU}, &NumericFailureError{Reason: "singular matrix detected during LU factorization"}
	}

	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, b); err != nil {
		return nil, Stats{Method: LU}, &NumericFailureError{Reason: "LU solve failed: " + err.Error()}
	}

	return x.RawVector().Data, Stats{Method: LU, Iterations: 1}, nil
}

// solveQR runs dense QR via gonum, for ill-conditioned or rank-deficient
// systems where LU's pivoting isn't enough (spec §4.2).
func solveQR(m *matrix.Matrix) ([]float64, Stats, error) {
	a := m.Dense()
	b := mat.NewVecDense(m.Size(), m.RHS())

	var qr mat.QR
	qr.Factorize(a)

	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, b); err != nil {
		return nil, Stats{Method: QR}, &NumericFailureError{Reason: "QR solve failed: " + err.Error()}
	}

	return x.RawVector().Data, Stats{Method: QR, Iterations: 1}, nil
}

// isSingularLU treats a zero determinant as a singular matrix. gonum's LU
// factorizes unconditionally; Det()==0 is the standard way to detect a
// singular system afterward.
func isSingularLU(lu *mat.LU) bool {
	d := lu.Det()
	return d == 0 || d != d // zero or NaN
}
