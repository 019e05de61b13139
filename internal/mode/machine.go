package mode

import (
	"errors"
	"fmt"
)

// Machine holds the active mode and advances it on button presses.
type Machine struct {
	set Set
	idx int
}

// NewMachine starts at start, which must be a member of set.
func NewMachine(set Set, start Mode) (*Machine, error) {
	if len(set) == 0 {
		return nil, errors.New("mode set is empty")
	}
	idx := set.index(start)
	if idx < 0 {
		return nil, fmt.Errorf("start mode %v is not in the mode set", start)
	}
	return &Machine{set: set, idx: idx}, nil
}

func (m *Machine) Current() Mode { return m.set[m.idx] }

// Update consumes at most one falling edge. It reports whether the mode
// changed, in which case the caller must clear the LEDs before rendering.
func (m *Machine) Update(fell bool) (Mode, bool) {
	if !fell {
		return m.Current(), false
	}
	m.idx = (m.idx + 1) % len(m.set)
	return m.Current(), true
}
