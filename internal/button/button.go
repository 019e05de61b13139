package button

import (
	"sync"
	"time"
)

// DefaultInterval is how long a level must hold before it counts.
const DefaultInterval = 10 * time.Millisecond

// Pin is a raw digital input. The button is wired to ground with a pull-up,
// so Value is false while pressed.
type Pin interface {
	Value() bool
}

type PinFunc func() bool

func (f PinFunc) Value() bool { return f() }

// Debouncer turns a bouncy pin into clean press and release edges. Call
// Update once per poll; Fell and Rose describe that poll only.
type Debouncer struct {
	pin      Pin
	now      func() time.Duration
	interval time.Duration

	unstable   bool
	stable     bool
	changed    bool
	lastBounce time.Duration
}

func New(pin Pin, now func() time.Duration, interval time.Duration) *Debouncer {
	if interval < 0 {
		interval = 0
	}
	v := pin.Value()
	return &Debouncer{
		pin:        pin,
		now:        now,
		interval:   interval,
		unstable:   v,
		stable:     v,
		lastBounce: now(),
	}
}

func (d *Debouncer) Update() {
	d.changed = false
	t := d.now()
	v := d.pin.Value()
	if v != d.unstable {
		d.unstable = v
		d.lastBounce = t
		if d.interval > 0 {
			return
		}
	}
	if t-d.lastBounce >= d.interval && d.stable != d.unstable {
		d.stable = d.unstable
		d.changed = true
	}
}

// Value is the debounced level.
func (d *Debouncer) Value() bool { return d.stable }

// Fell reports a press (high to low) on the last Update.
func (d *Debouncer) Fell() bool { return d.changed && !d.stable }

// Rose reports a release (low to high) on the last Update.
func (d *Debouncer) Rose() bool { return d.changed && d.stable }

// Momentary is a Pin for inputs that only report key-down events, such as a
// terminal. Press pulls it low for the hold time.
type Momentary struct {
	mu      sync.Mutex
	now     func() time.Duration
	hold    time.Duration
	until   time.Duration
	pressed bool
}

func NewMomentary(now func() time.Duration, hold time.Duration) *Momentary {
	return &Momentary{now: now, hold: hold}
}

func (m *Momentary) Press() {
	m.mu.Lock()
	m.pressed = true
	m.until = m.now() + m.hold
	m.mu.Unlock()
}

func (m *Momentary) Value() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pressed && m.now() >= m.until {
		m.pressed = false
	}
	return !m.pressed
}
