// Package waveform evaluates time-varying source descriptors. The only
// waveform the netlist grammar admits is PULSE, per spec §4.4 — adapted
// from the ramp/hold logic in edp1096-toy-spice's vsource.go and isource.go
// (getPulseVoltage / getPulseCurrent), generalized into one shared type
// shared by both voltage and current sources.
package waveform

import "math"

// Pulse is PULSE(v1, v2, td, tr, tf, pw, per).
type Pulse struct {
	V1     float64
	V2     float64
	Delay  float64
	Rise   float64
	Fall   float64
	Width  float64
	Period float64
}

// ValueAt evaluates the waveform at time t >= 0.
//
// Until t < Delay the value is V1. After that, the pulse is periodic with
// period Period (or non-repeating if Period <= 0): ramp from V1 to V2 over
// Rise, hold V2 for Width, ramp back to V1 over Fall, hold V1 for the
// remainder of the period.
func (p *Pulse) ValueAt(t float64) float64 {
	if t < p.Delay {
		return p.V1
	}

	t -= p.Delay
	if p.Period > 0 {
		t = math.Mod(t, p.Period)
	}

	if t < p.Rise {
		if p.Rise == 0 {
			return p.V2
		}
		return p.V1 + (p.V2-p.V1)*t/p.Rise
	}

	if t < p.Rise+p.Width {
		return p.V2
	}

	fallStart := p.Rise + p.Width
	if t < fallStart+p.Fall {
		if p.Fall == 0 {
			return p.V1
		}
		return p.V2 - (p.V2-p.V1)*(t-fallStart)/p.Fall
	}

	return p.V1
}

// InitialValue returns V1, the level the pulse starts from (its value at t=0
// whenever Delay or Rise is positive). Nothing in this module calls it: the
// netlist parser requires an explicit value on every source line and uses
// that as the DC/sweep value.
func (p *Pulse) InitialValue() float64 {
	return p.V1
}
