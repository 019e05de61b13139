package lfo

import "math"

// Phase is a free-running accumulator that wraps into [0, 1).
// Rainbow modes use it directly as a hue offset.
type Phase struct {
	phase float64
}

// Advance moves the phase forward by rate cycles per second over dt seconds
// and returns the wrapped result.
func (p *Phase) Advance(rate, dt float64) float64 {
	if dt <= 0 || rate == 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return p.phase
	}
	p.phase = math.Mod(p.phase+rate*dt, 1.0)
	if p.phase < 0 {
		p.phase += 1.0
	}
	return p.phase
}

func (p *Phase) Value() float64 { return p.phase }

// Reset zeros the phase.
func (p *Phase) Reset() { p.phase = 0 }

// Breathe maps a sine of angular rate omega (rad/s) at time t onto [lo, hi].
// It has no state: the period does not depend on frame timing.
func Breathe(t, omega, lo, hi float64) float64 {
	s := 0.5 + 0.5*math.Sin(t*omega)
	return lo + (hi-lo)*s
}
