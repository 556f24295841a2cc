package waveform

import "testing"

func TestPulseValueAt(t *testing.T) {
	p := &Pulse{V1: 0, V2: 5, Delay: 0, Rise: 1e-9, Fall: 1e-9, Width: 500e-9, Period: 1e-6}

	cases := []struct {
		t    float64
		want float64
	}{
		{0, 0},
		{0.5e-9, 2.5},
		{1e-9, 5},
		{250e-9, 5},
		{501e-9, 5},
		{502e-9, 0},
	}
	for _, c := range cases {
		got := p.ValueAt(c.t)
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("ValueAt(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestPulseValueAtBeforeDelay(t *testing.T) {
	p := &Pulse{V1: 1, V2: 5, Delay: 10e-9, Rise: 1e-9, Fall: 1e-9, Width: 1e-9, Period: 0}
	if got := p.ValueAt(5e-9); got != 1 {
		t.Errorf("ValueAt before delay = %v, want 1", got)
	}
}

func TestPulseInitialValue(t *testing.T) {
	p := &Pulse{V1: -3, V2: 7}
	if got := p.InitialValue(); got != -3 {
		t.Errorf("InitialValue() = %v, want -3", got)
	}
}

func TestPulseNonPeriodicHoldsFinalLevel(t *testing.T) {
	p := &Pulse{V1: 0, V2: 1, Delay: 0, Rise: 1, Fall: 1, Width: 1, Period: 0}
	// After rise+width+fall, a non-periodic pulse (Period<=0) holds V1.
	if got := p.ValueAt(10); got != 0 {
		t.Errorf("ValueAt(10) = %v, want 0 (held at V1, non-periodic)", got)
	}
}
