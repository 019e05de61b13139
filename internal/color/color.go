package color

import "math"

// RGB is one pixel as sent to the strip, 0..255 per channel.
type RGB struct {
	R, G, B uint8
}

var (
	Black     = RGB{}
	White     = RGB{255, 255, 255}
	PastelRed = RGB{255, 90, 110}
	WarmWhite = RGB{255, 220, 180}
)

// RGBA makes RGB usable as an image/color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func (c RGB) IsOff() bool { return c == Black }

// Scale multiplies every channel by k and truncates.
func (c RGB) Scale(k float64) RGB {
	return RGB{
		R: channel(float64(c.R) * k),
		G: channel(float64(c.G) * k),
		B: channel(float64(c.B) * k),
	}
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpRGB mixes a toward b by t, truncating each channel.
func LerpRGB(a, b RGB, t float64) RGB {
	return RGB{
		R: channel(Lerp(float64(a.R), float64(b.R), t)),
		G: channel(Lerp(float64(a.G), float64(b.G), t)),
		B: channel(Lerp(float64(a.B), float64(b.B), t)),
	}
}

// HSV converts with the six-sector algorithm. Hue wraps modulo 1.
func HSV(h, s, v float64) RGB {
	h = wrap(h)
	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - f*s)
	t := v * (1.0 - (1.0-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return RGB{R: channel(r * 255), G: channel(g * 255), B: channel(b * 255)}
}

// Gamma applies a power curve per channel with rounding.
func Gamma(c RGB, gamma float64) RGB {
	curve := func(x uint8) uint8 {
		return channel(math.Pow(float64(x)/255.0, gamma)*255.0 + 0.5)
	}
	return RGB{R: curve(c.R), G: curve(c.G), B: curve(c.B)}
}

func wrap(h float64) float64 {
	h = math.Mod(h, 1.0)
	if h < 0 {
		h += 1.0
	}
	return h
}

// channel truncates toward zero and saturates to 0..255.
func channel(x float64) uint8 {
	if !(x > 0) {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x)
}
