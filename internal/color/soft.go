package color

import "math"

const (
	RainbowSaturation = 0.90
	DefaultGamma      = 2.0

	redWidth    = 0.10
	orangeHue   = 0.08
	orangeWidth = 0.08
	hotSatCut   = 0.45
	hotValueCut = 0.25
)

// Hotness is 1 on pure red or orange and falls to 0 at the edge of each band.
func Hotness(h float64) float64 {
	h = wrap(h)
	dRed := math.Min(h, 1.0-h)
	dOrange := math.Abs(h - orangeHue)

	hot := 0.0
	if dRed < redWidth {
		hot = math.Max(hot, (redWidth-dRed)/redWidth)
	}
	if dOrange < orangeWidth {
		hot = math.Max(hot, (orangeWidth-dOrange)/orangeWidth)
	}
	return hot
}

// Soft converts h,s,v through the softened-hot-hue transform and gamma.
// Every HSV-derived color headed for the strips goes through here.
func Soft(h, s, v float64) RGB {
	hot := Hotness(h)
	s *= 1.0 - hotSatCut*hot
	v *= 1.0 - hotValueCut*hot
	return Gamma(HSV(h, s, v), DefaultGamma)
}

// Rainbow is Soft at the fixed rainbow saturation.
func Rainbow(h, v float64) RGB {
	return Soft(h, RainbowSaturation, v)
}
