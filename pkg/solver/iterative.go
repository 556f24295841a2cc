package solver

import (
	"math"

	"github.com/icmhg/spicesim/pkg/matrix"
)

// solveCG is the standard Conjugate Gradient recurrence for symmetric
// positive definite A (spec §4.2): r, p, alpha = (r.r)/(p.Ap), x += alpha*p,
// r -= alpha*Ap, beta = (r_new.r_new)/(r_old.r_old), p = r + beta*p.
func solveCG(m *matrix.Matrix, cfg Config) ([]float64, Stats, error) {
	n := m.Size()
	rows, cols, vals := m.Triplets()
	b := m.RHS()

	x := make([]float64, n)
	r := sub(b, matVec(rows, cols, vals, x, n))
	p := append([]float64(nil), r...)
	rsOld := dot(r, r)

	tol := math.Max(cfg.TolAbs, cfg.TolRel*l2norm(b))

	iter := 0
	for ; iter < cfg.MaxIter; iter++ {
		if math.Sqrt(rsOld) <= tol {
			break
		}
		ap := matVec(rows, cols, vals, p, n)
		denom := dot(p, ap)
		if denom == 0 {
			return x, Stats{Method: CG, Iterations: iter}, &NumericFailureError{
				Reason:       "CG breakdown: p.Ap == 0",
				ResidualNorm: math.Sqrt(rsOld),
			}
		}
		alpha := rsOld / denom
		x = axpy(alpha, p, x)
		r = axpy(-alpha, ap, r)
		rsNew := dot(r, r)
		beta := rsNew / rsOld
		p = axpy(beta, p, r)
		rsOld = rsNew
	}

	return x, Stats{Method: CG, Iterations: iter}, nil
}

// solveBiCGSTAB is the standard seven-vector BiCGSTAB recurrence for
// general non-symmetric sparse systems (spec §4.2), with shadow residual
// r_hat = r0 and parameters rho, alpha, omega.
func solveBiCGSTAB(m *matrix.Matrix, cfg Config) ([]float64, Stats, error) {
	n := m.Size()
	rows, cols, vals := m.Triplets()
	b := m.RHS()

	x := make([]float64, n)
	r := sub(b, matVec(rows, cols, vals, x, n))
	rHat := append([]float64(nil), r...)
	p := append([]float64(nil), r...)
	v := make([]float64, n)

	rho, alpha, omega := 1.0, 1.0, 1.0
	tol := math.Max(cfg.TolAbs, cfg.TolRel*l2norm(b))

	iter := 0
	for ; iter < cfg.MaxIter; iter++ {
		if l2norm(r) <= tol {
			break
		}

		rhoNew := dot(rHat, r)
		if math.Abs(rhoNew) < 1e-15 {
			return x, Stats{Method: BiCGSTAB, Iterations: iter}, &NumericFailureError{
				Reason:       "BiCGSTAB breakdown: rho ~ 0",
				ResidualNorm: l2norm(r),
			}
		}
		beta := (rhoNew / rho) * (alpha / omega)
		rho = rhoNew

		// p = r + beta*(p - omega*v)
		pMinusOmegaV := axpy(-omega, v, p)
		p = axpy(beta, pMinusOmegaV, r)

		v = matVec(rows, cols, vals, p, n)
		alphaDenom := dot(rHat, v)
		if alphaDenom == 0 {
			return x, Stats{Method: BiCGSTAB, Iterations: iter}, &NumericFailureError{
				Reason:       "BiCGSTAB breakdown: r_hat.v == 0",
				ResidualNorm: l2norm(r),
			}
		}
		alpha = rho / alphaDenom

		h := axpy(alpha, p, x)
		s := axpy(-alpha, v, r)

		if l2norm(s) <= tol {
			x = h
			r = s
			iter++
			break
		}

		t := matVec(rows, cols, vals, s, n)
		tDotT := dot(t, t)
		if tDotT == 0 {
			return h, Stats{Method: BiCGSTAB, Iterations: iter}, &NumericFailureError{
				Reason:       "BiCGSTAB breakdown: t.t == 0",
				ResidualNorm: l2norm(s),
			}
		}
		omega = dot(t, s) / tDotT

		x = axpy(omega, s, h)
		r = axpy(-omega, t, s)

		if math.Abs(omega) < 1e-15 {
			iter++
			break
		}
	}

	return x, Stats{Method: BiCGSTAB, Iterations: iter}, nil
}
