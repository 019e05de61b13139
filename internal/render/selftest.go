package render

import (
	"math"

	"github.com/emoryta/ADDigitalProj/internal/color"
	"github.com/emoryta/ADDigitalProj/internal/topology"
)

// SelfTest blinks both strips through a list of colors and then chases a
// single pixel down each strip. It ignores the audio signals.
type SelfTest struct {
	Colors []color.RGB
	Blink  float64 // seconds on, then the same off
	Step   float64 // seconds per chase position
}

var selfTestColors = []color.RGB{
	{R: 255},
	{G: 255},
	{B: 255},
	{R: 255, G: 255},
	{G: 255, B: 255},
	{R: 255, B: 255},
	color.White,
}

var (
	chaseLeft  = color.RGB{R: 0, G: 100, B: 255}
	chaseRight = color.RGB{R: 255, G: 50, B: 0}
)

func NewSelfTest() *SelfTest {
	return &SelfTest{Colors: selfTestColors, Blink: 0.15, Step: 0.1}
}

// Period is the length of one blink-then-chase cycle for n LEDs per side.
func (s *SelfTest) Period(n int) float64 {
	return float64(len(s.Colors))*2*s.Blink + float64(n)*s.Step
}

func (s *SelfTest) Render(f Frame, u *topology.U) {
	n := u.PerSide()
	period := s.Period(n)
	if period <= 0 {
		u.Clear()
		return
	}
	t := math.Mod(f.Clock.Now, period)
	if t < 0 {
		t += period
	}

	blinkSpan := float64(len(s.Colors)) * 2 * s.Blink
	if t < blinkSpan {
		slot := int(t / s.Blink)
		if slot%2 == 1 || slot/2 >= len(s.Colors) {
			u.Clear()
			return
		}
		u.Fill(s.Colors[slot/2])
		return
	}

	pos := int((t - blinkSpan) / s.Step)
	if pos >= n {
		pos = n - 1
	}
	u.Clear()
	u.SetSide(topology.Left, pos, chaseLeft)
	u.SetSide(topology.Right, pos, chaseRight)
}
