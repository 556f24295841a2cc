// Package mna assembles the Modified Nodal Analysis system for a validated
// circuit: the sparse matrix A, RHS b, and the index maps that let the
// analysis driver interpret the solution vector. It generalizes the
// per-device Stamp methods in edp1096-toy-spice/pkg/device/*.go into a single
// pass keyed on component kind, since this core has no device interface to
// dispatch through — only the five kinds spec §3 names.
package mna

// Mode selects how reactive elements are stamped and, for Transient, which
// instant a time-varying source is evaluated at.
type Mode struct {
	Transient bool
	Step      float64            // h, only meaningful when Transient
	Time      float64            // t_k, only meaningful when Transient
	Prev      map[string]float64 // node name -> previous voltage, branch name -> previous current
}

// DC is the operating-point / DC-sweep assembly mode: capacitors and
// inductors contribute no stamp, so both are open branches.
func DC() Mode { return Mode{} }

// Transient builds a transient-step mode at time t with backward-Euler step
// h and the previous solution, keyed by node and branch name so the
// assembler can look up whatever it stamped last step regardless of
// index-map churn between calls.
func Transient(t, h float64, prev map[string]float64) Mode {
	return Mode{Transient: true, Step: h, Time: t, Prev: prev}
}
