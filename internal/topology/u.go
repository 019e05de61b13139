package topology

import (
	"fmt"

	"github.com/emoryta/ADDigitalProj/internal/color"
)

type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// U maps one logical index space onto two strips mounted as an upside-down U.
// Index 0 is the top of the left strip, indices run down the left side and
// then back up the right side, so 2N-1 is the top of the right strip.
type U struct {
	left  Strip
	right Strip
	n     int
}

// NewU joins two equal, non-empty strips at the top of the U.
func NewU(left, right Strip) (*U, error) {
	if left.Len() != right.Len() {
		return nil, fmt.Errorf("strip lengths differ: left %d, right %d", left.Len(), right.Len())
	}
	if left.Len() == 0 {
		return nil, fmt.Errorf("strips must have at least one LED")
	}
	return &U{left: left, right: right, n: left.Len()}, nil
}

// Len is the size of the logical index space.
func (u *U) Len() int { return 2 * u.n }

// PerSide is the number of LEDs on each strip.
func (u *U) PerSide() int { return u.n }

// Locate returns the strip and physical position behind logical index i.
// Out-of-range indices clamp to the nearest end.
func (u *U) Locate(i int) (Side, int) {
	if i < 0 {
		i = 0
	}
	if i >= 2*u.n {
		i = 2*u.n - 1
	}
	if i < u.n {
		return Left, i
	}
	return Right, 2*u.n - 1 - i
}

func (u *U) Set(i int, c color.RGB) {
	if i < 0 || i >= 2*u.n {
		return
	}
	side, pos := u.Locate(i)
	if side == Left {
		u.left.Set(pos, c)
		return
	}
	u.right.Set(pos, c)
}

// SetMirrored writes the same physical position on both strips.
func (u *U) SetMirrored(pos int, c color.RGB) {
	if pos < 0 || pos >= u.n {
		return
	}
	u.left.Set(pos, c)
	u.right.Set(pos, c)
}

// SetSide writes physical position pos on one strip.
func (u *U) SetSide(side Side, pos int, c color.RGB) {
	if pos < 0 || pos >= u.n {
		return
	}
	if side == Left {
		u.left.Set(pos, c)
		return
	}
	u.right.Set(pos, c)
}

// Fill sets every LED on both strips.
func (u *U) Fill(c color.RGB) {
	u.left.Fill(c)
	u.right.Fill(c)
}

func (u *U) Clear() { u.Fill(color.Black) }

// Show commits the left strip, then the right.
func (u *U) Show() {
	u.left.Show()
	u.right.Show()
}

// Reader is implemented by strips that can report their pixel contents.
type Reader interface {
	At(i int) color.RGB
}

// At reads logical index i back from the underlying strip, or Black when the
// strip is write-only.
func (u *U) At(i int) color.RGB {
	if i < 0 || i >= 2*u.n {
		return color.Black
	}
	side, pos := u.Locate(i)
	s := u.left
	if side == Right {
		s = u.right
	}
	if r, ok := s.(Reader); ok {
		return r.At(pos)
	}
	return color.Black
}

// Snapshot returns every logical index in order.
func (u *U) Snapshot() []color.RGB {
	out := make([]color.RGB, 2*u.n)
	for i := range out {
		out[i] = u.At(i)
	}
	return out
}
