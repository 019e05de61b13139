package envelope

import (
	"errors"
	"fmt"
	"math"
)

// FullScale16 is the normalization divisor for 16-bit unsigned samples.
const FullScale16 = 65535.0

// Params tunes the loudness and punch extraction.
type Params struct {
	MicGain float64 `yaml:"mic_gain"`
	Attack  float64 `yaml:"attack"`
	Release float64 `yaml:"release"`

	// EnvMax is the envelope value treated as full loudness.
	EnvMax float64 `yaml:"env_max"`

	AutoGain       bool    `yaml:"auto_gain"`
	AutoGainTarget float64 `yaml:"auto_gain_target"`
	AutoGainRise   float64 `yaml:"auto_gain_rise"`
	AutoGainFall   float64 `yaml:"auto_gain_fall"`
	AutoGainMin    float64 `yaml:"auto_gain_min"`
	AutoGainMax    float64 `yaml:"auto_gain_max"`

	SlowAttack  float64 `yaml:"slow_attack"`
	SlowRelease float64 `yaml:"slow_release"`

	// PunchBoost of zero disables transient detection.
	PunchBoost float64 `yaml:"punch_boost"`
}

func DefaultParams() Params {
	return Params{
		MicGain:        21.0,
		Attack:         0.55,
		Release:        0.12,
		EnvMax:         0.15,
		AutoGain:       true,
		AutoGainTarget: 0.48,
		AutoGainRise:   0.10,
		AutoGainFall:   0.04,
		AutoGainMin:    0.08,
		AutoGainMax:    5.0,
		SlowAttack:     0.02,
		SlowRelease:    0.003,
		PunchBoost:     3.5,
	}
}

// BasicParams matches the reduced variant: fixed gain, no punch.
func BasicParams() Params {
	p := DefaultParams()
	p.AutoGain = false
	p.PunchBoost = 0
	return p
}

func (p Params) Validate() error {
	var errs []error
	if p.EnvMax <= 0 {
		errs = append(errs, fmt.Errorf("env_max must be positive, got %v", p.EnvMax))
	}
	if p.MicGain < 0 {
		errs = append(errs, fmt.Errorf("mic_gain must not be negative, got %v", p.MicGain))
	}
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"attack", p.Attack},
		{"release", p.Release},
		{"slow_attack", p.SlowAttack},
		{"slow_release", p.SlowRelease},
	} {
		if c.v <= 0 || c.v > 1 {
			errs = append(errs, fmt.Errorf("%s must be in (0, 1], got %v", c.name, c.v))
		}
	}
	if p.AutoGain {
		if p.AutoGainMin <= 0 || p.AutoGainMax < p.AutoGainMin {
			errs = append(errs, fmt.Errorf("auto gain range [%v, %v] is invalid", p.AutoGainMin, p.AutoGainMax))
		}
		if p.AutoGainTarget <= 0 || p.AutoGainTarget >= 1 {
			errs = append(errs, fmt.Errorf("auto_gain_target must be in (0, 1), got %v", p.AutoGainTarget))
		}
		if p.AutoGainRise < 0 || p.AutoGainFall < 0 {
			errs = append(errs, errors.New("auto gain rates must not be negative"))
		}
	}
	if p.PunchBoost < 0 {
		errs = append(errs, fmt.Errorf("punch_boost must not be negative, got %v", p.PunchBoost))
	}
	return errors.Join(errs...)
}

// State is carried from one frame to the next.
type State struct {
	Fast     float64
	Slow     float64
	AutoGain float64
}

// InitialState starts both envelopes silent with unity gain.
func InitialState(p Params) State {
	if !p.AutoGain {
		return State{AutoGain: 1}
	}
	return State{AutoGain: clamp(1.0, p.AutoGainMin, p.AutoGainMax)}
}

// Signals is what the renderer sees each frame.
type Signals struct {
	Loudness float64
	Punch    float64

	// RMS and AutoGain are reported for debug output only.
	RMS      float64
	AutoGain float64
}

// Extract runs one frame of the envelope pipeline on block.
func Extract(block []uint16, prior State, p Params) (State, Signals) {
	s := prior
	gain := 1.0
	if p.AutoGain {
		s.AutoGain = clamp(s.AutoGain, p.AutoGainMin, p.AutoGainMax)
		gain = s.AutoGain
	}

	rms := NormalizedRMS(block)
	raw := rms * p.MicGain * gain

	fast := NewFollower(p.Attack, p.Release)
	fast.Set(s.Fast)
	s.Fast = fast.Step(raw)
	loud := clamp01(s.Fast / p.EnvMax)

	if p.AutoGain {
		target := p.AutoGainTarget
		switch {
		case loud < target*0.7:
			s.AutoGain += p.AutoGainRise * (target - loud)
		case loud > target*1.3:
			s.AutoGain -= p.AutoGainFall * (loud - target)
		}
		s.AutoGain = clamp(s.AutoGain, p.AutoGainMin, p.AutoGainMax)
	}

	slow := NewFollower(p.SlowAttack, p.SlowRelease)
	slow.Set(s.Slow)
	s.Slow = slow.Step(s.Fast)
	slowLoud := clamp01(s.Slow / p.EnvMax)

	sig := Signals{
		Loudness: loud,
		Punch:    clamp01((loud - slowLoud) * p.PunchBoost),
		RMS:      rms,
		AutoGain: gain,
	}
	if p.AutoGain {
		sig.AutoGain = s.AutoGain
	}
	return s, sig
}

// NormalizedRMS removes the block's DC bias and returns its RMS as a
// fraction of the 16-bit range. The bias is truncated to an integer first.
func NormalizedRMS(block []uint16) float64 {
	if len(block) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range block {
		sum += uint64(v)
	}
	mean := int64(sum / uint64(len(block)))
	var acc float64
	for _, v := range block {
		d := float64(int64(v) - mean)
		acc += d * d
	}
	return math.Sqrt(acc/float64(len(block))) / FullScale16
}

// Extractor owns the frame-to-frame state for Extract.
type Extractor struct {
	params Params
	state  State
}

func New(p Params) *Extractor {
	return &Extractor{params: p, state: InitialState(p)}
}

func (e *Extractor) Extract(block []uint16) Signals {
	var sig Signals
	e.state, sig = Extract(block, e.state, e.params)
	return sig
}

func (e *Extractor) State() State { return e.state }

func (e *Extractor) Params() Params { return e.params }

// SetState replaces the carried state, clamping the gain into range.
func (e *Extractor) SetState(s State) {
	if e.params.AutoGain {
		s.AutoGain = clamp(s.AutoGain, e.params.AutoGainMin, e.params.AutoGainMax)
	}
	e.state = s
}

func (e *Extractor) Reset() { e.state = InitialState(e.params) }

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
