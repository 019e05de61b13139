package render

import (
	"math/rand"

	"github.com/emoryta/ADDigitalProj/internal/color"
	"github.com/emoryta/ADDigitalProj/internal/envelope"
	"github.com/emoryta/ADDigitalProj/internal/mode"
	"github.com/emoryta/ADDigitalProj/internal/topology"
)

// Clock is the animation time for one frame, in seconds.
type Clock struct {
	Now float64
	DT  float64
}

// Frame is everything a mode may read.
type Frame struct {
	Signals envelope.Signals
	Clock   Clock
}

// ModeRenderer draws one mode. It may keep its own phase or decay state but
// must write every LED it owns each frame.
type ModeRenderer interface {
	Render(f Frame, u *topology.U)
}

type Params struct {
	// PeakFall is how far the bar peak marker drops per frame.
	PeakFall    float64   `yaml:"peak_fall"`
	StaticColor color.RGB `yaml:"-"`
}

func DefaultParams() Params {
	return Params{
		PeakFall:    0.015,
		StaticColor: color.PastelRed,
	}
}

// Renderer dispatches to one ModeRenderer per mode.
type Renderer struct {
	modes map[mode.Mode]ModeRenderer
}

// New builds the full mode table. rng drives SOUND_SPARKLE and must not be
// shared with another goroutine.
func New(p Params, rng *rand.Rand) *Renderer {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Renderer{
		modes: map[mode.Mode]ModeRenderer{
			mode.Off:            Off{},
			mode.Static:         Static{Color: p.StaticColor},
			mode.RainbowBreathe: &Breathe{},
			mode.SoundBar:       NewBar(p.PeakFall),
			mode.SoundColor:     SoundColor{},
			mode.SoundSparkle:   NewSparkle(rng),
			mode.RainbowFlow:    &Flow{},
			mode.SoundPulse:     Pulse{},
		},
	}
}

func (r *Renderer) For(m mode.Mode) ModeRenderer {
	return r.modes[m]
}

// Render draws m into u. Unknown modes render as OFF. It does not commit.
func (r *Renderer) Render(m mode.Mode, f Frame, u *topology.U) {
	mr, ok := r.modes[m]
	if !ok {
		mr = Off{}
	}
	mr.Render(f, u)
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
