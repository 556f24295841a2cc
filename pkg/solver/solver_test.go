package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icmhg/spicesim/pkg/matrix"
)

// buildSPD and buildNonSymmetric are the two small 2x2 systems used
// throughout the solver suite: a symmetric SPD system for CG and a
// non-symmetric upper-triangular one for LU/QR/BiCGSTAB.
func buildSPD(t *testing.T) *matrix.Matrix {
	t.Helper()
	m, err := matrix.New(2)
	require.NoError(t, err)
	// [[4,1],[1,3]] x = [1,2]
	m.AddElement(0, 0, 4)
	m.AddElement(0, 1, 1)
	m.AddElement(1, 0, 1)
	m.AddElement(1, 1, 3)
	m.AddRHS(0, 1)
	m.AddRHS(1, 2)
	return m
}

func buildNonSymmetric(t *testing.T) *matrix.Matrix {
	t.Helper()
	m, err := matrix.New(2)
	require.NoError(t, err)
	// [[2,1],[0,3]] x = [3,6] -> x = [0.5,2]
	m.AddElement(0, 0, 2)
	m.AddElement(0, 1, 1)
	m.AddElement(1, 1, 3)
	m.AddRHS(0, 3)
	m.AddRHS(1, 6)
	return m
}

func TestSolveLU(t *testing.T) {
	m := buildNonSymmetric(t)
	defer m.Destroy()

	x, stats, err := Solve(m, Config{Method: LU, TolAbs: 1e-9, TolRel: 1e-9, MaxIter: 100})
	require.NoError(t, err)
	require.True(t, stats.Success)
	assert.InDelta(t, 2, x[1], 1e-9)
	assert.InDelta(t, 0.5, x[0], 1e-9)
}

func TestSolveQR(t *testing.T) {
	m := buildNonSymmetric(t)
	defer m.Destroy()

	x, stats, err := Solve(m, Config{Method: QR, TolAbs: 1e-9, TolRel: 1e-9, MaxIter: 100})
	require.NoError(t, err)
	require.True(t, stats.Success)
	assert.InDelta(t, 0.5, x[0], 1e-9)
	assert.InDelta(t, 2, x[1], 1e-9)
}

func TestSolveCG(t *testing.T) {
	m := buildSPD(t)
	defer m.Destroy()

	x, stats, err := Solve(m, Config{Method: CG, TolAbs: 1e-10, TolRel: 1e-10, MaxIter: 1000})
	require.NoError(t, err)
	require.True(t, stats.Success)
	// [[4,1],[1,3]] x = [1,2] -> x = [1/11, 7/11]
	assert.InDelta(t, 1.0/11, x[0], 1e-6)
	assert.InDelta(t, 7.0/11, x[1], 1e-6)
}

func TestSolveBiCGSTAB(t *testing.T) {
	m := buildNonSymmetric(t)
	defer m.Destroy()

	x, stats, err := Solve(m, Config{Method: BiCGSTAB, TolAbs: 1e-9, TolRel: 1e-9, MaxIter: 1000})
	require.NoError(t, err)
	require.True(t, stats.Success)
	assert.InDelta(t, 0.5, x[0], 1e-6)
	assert.InDelta(t, 2, x[1], 1e-6)
}

func TestAutoSelectPicksCGForSymmetric(t *testing.T) {
	m := buildSPD(t)
	defer m.Destroy()
	assert.Equal(t, CG, autoSelect(m))
}

func TestAutoSelectPicksBiCGSTABForNonSymmetric(t *testing.T) {
	m := buildNonSymmetric(t)
	defer m.Destroy()
	assert.Equal(t, BiCGSTAB, autoSelect(m))
}

func TestSolveReportsResidualBoundOnSuccess(t *testing.T) {
	m := buildSPD(t)
	defer m.Destroy()

	_, stats, err := Solve(m, DefaultConfig())
	require.NoError(t, err)
	bound := math.Max(DefaultConfig().TolAbs, DefaultConfig().TolRel*l2norm(m.RHS()))
	assert.LessOrEqual(t, stats.ResidualNorm, bound)
}
