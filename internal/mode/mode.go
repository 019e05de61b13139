package mode

import (
	"fmt"
	"strings"
)

// Mode is one visual program. The numeric order is the cycling order.
type Mode int

const (
	Off Mode = iota
	Static
	RainbowBreathe
	SoundBar
	SoundColor
	SoundSparkle
	RainbowFlow
	SoundPulse
)

var names = [...]string{
	Off:            "OFF",
	Static:         "STATIC",
	RainbowBreathe: "RAINBOW_BREATHE",
	SoundBar:       "SOUND_BAR",
	SoundColor:     "SOUND_COLOR",
	SoundSparkle:   "SOUND_SPARKLE",
	RainbowFlow:    "RAINBOW_FLOW",
	SoundPulse:     "SOUND_PULSE",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(names) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return names[m]
}

// Reactive reports whether the mode reads the audio signals.
func (m Mode) Reactive() bool {
	switch m {
	case Off, Static, RainbowBreathe:
		return false
	}
	return true
}

// Parse accepts names case-insensitively, with '-' or '_' separators.
func Parse(s string) (Mode, error) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for i, n := range names {
		if n == key {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// MarshalText writes the canonical upper-case name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Set is the closed list of modes a button cycles through.
type Set []Mode

var (
	FullSet  = Set{Off, Static, RainbowBreathe, SoundBar, SoundColor, SoundSparkle, RainbowFlow, SoundPulse}
	BasicSet = Set{Off, Static, RainbowBreathe, SoundBar, SoundColor, SoundSparkle}
)

func (s Set) Contains(m Mode) bool {
	return s.index(m) >= 0
}

func (s Set) index(m Mode) int {
	for i, v := range s {
		if v == m {
			return i
		}
	}
	return -1
}
