// Package solver is the numerical kernel: solve(A, b) -> (x, stats) for the
// four methods spec §4.2 specifies (dense LU, dense QR, CG, BiCGSTAB) plus
// an auto-select policy. It consumes the staging matrix from pkg/matrix and
// never mutates it.
package solver

import (
	"fmt"
	"time"

	"github.com/icmhg/spicesim/internal/consts"
	"github.com/icmhg/spicesim/pkg/matrix"
)

// Method names a linear solve strategy.
type Method int

const (
	// Auto picks CG or BiCGSTAB based on a symmetry probe (spec §4.2).
	Auto Method = iota
	LU
	QR
	CG
	BiCGSTAB
)

func (m Method) String() string {
	switch m {
	case LU:
		return "LU"
	case QR:
		return "QR"
	case CG:
		return "CG"
	case BiCGSTAB:
		return "BiCGSTAB"
	default:
		return "Auto"
	}
}

// Config configures a solve call.
type Config struct {
	Method  Method
	TolRel  float64
	TolAbs  float64
	MaxIter int
}

// DefaultConfig returns LU with spec's default tolerances — LU is the
// conservative default spec §4.2 recommends for MNA systems with V-source
// branch rows, which are not guaranteed symmetric positive definite.
func DefaultConfig() Config {
	return Config{
		Method:  LU,
		TolRel:  consts.DefaultTolRel,
		TolAbs:  consts.DefaultTolAbs,
		MaxIter: consts.DefaultMaxIter,
	}
}

func (c Config) withDefaults() Config {
	if c.TolRel == 0 {
		c.TolRel = consts.DefaultTolRel
	}
	if c.TolAbs == 0 {
		c.TolAbs = consts.DefaultTolAbs
	}
	if c.MaxIter == 0 {
		c.MaxIter = consts.DefaultMaxIter
	}
	return c
}

// Stats reports what a solve call did.
type Stats struct {
	Method       Method
	Iterations   int
	ResidualNorm float64
	WallTime     time.Duration
	Success      bool
}

// NumericFailureError is spec §7's NumericFailure taxonomy entry: the
// solver ran but did not produce a usable result.
type NumericFailureError struct {
	Reason       string
	ResidualNorm float64
}

func (e *NumericFailureError) Error() string {
	return fmt.Sprintf("numeric failure: %s (residual norm %.3e)", e.Reason, e.ResidualNorm)
}

// Solve solves Ax=b for the matrix m (which carries its own RHS), returning
// x and solve statistics. On a numeric failure it returns a
// *NumericFailureError along with whatever stats were gathered; an unknown
// Method yields a plain internal-invariant error instead.
func Solve(m *matrix.Matrix, cfg Config) ([]float64, Stats, error) {
	cfg = cfg.withDefaults()
	start := time.Now()

	method := cfg.Method
	if method == Auto {
		method = autoSelect(m)
	}

	var x []float64
	var stats Stats
	var err error

	switch method {
	case LU:
		x, stats, err = solveLU(m)
	case QR:
		x, stats, err = solveQR(m)
	case CG:
		x, stats, err = solveCG(m, cfg)
	case BiCGSTAB:
		x, stats, err = solveBiCGSTAB(m, cfg)
	default:
		return nil, Stats{}, fmt.Errorf("internal invariant: unknown solver method %v", method)
	}

	stats.WallTime = time.Since(start)
	if err != nil {
		return x, stats, err
	}

	b := m.RHS()
	resid := residualNorm(m, x, b)
	bNorm := l2norm(b)
	tolOK := resid <= cfg.TolAbs || (bNorm > 0 && resid/bNorm <= cfg.TolRel)
	stats.ResidualNorm = resid
	stats.Success = tolOK
	if !tolOK {
		return x, stats, &NumericFailureError{Reason: "residual above tolerance after solve", ResidualNorm: resid}
	}
	return x, stats, nil
}

// autoSelect implements spec §4.2: symmetric (within consts.SymmetryTolerance)
// selects CG, otherwise BiCGSTAB.
func autoSelect(m *matrix.Matrix) Method {
	if m.IsSymmetric(consts.SymmetryTolerance) {
		return CG
	}
	return BiCGSTAB
}

func residualNorm(m *matrix.Matrix, x, b []float64) float64 {
	rows, cols, vals := m.Triplets()
	ax := matVec(rows, cols, vals, x, m.Size())
	r := make([]float64, len(b))
	for i := range b {
		r[i] = ax[i] - b[i]
	}
	return l2norm(r)
}
