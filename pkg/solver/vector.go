package solver

import "math"

func matVec(rows, cols []int, vals, x []float64, n int) []float64 {
	y := make([]float64, n)
	for k, r := range rows {
		y[r] += vals[k] * x[cols[k]]
	}
	return y
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func l2norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

func axpy(alpha float64, x, y []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = y[i] + alpha*x[i]
	}
	return out
}

func sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}
