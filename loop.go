package addigital

import (
	"context"
	"time"
)

// AudioSource fills buf with unsigned 16-bit microphone samples. It blocks
// until the block is complete and has no failure path.
type AudioSource interface {
	Record(buf []uint16)
}

// ButtonSource is polled once per frame. Fell reports a debounced press
// seen by the latest Update.
type ButtonSource interface {
	Update()
	Fell() bool
}

// Clock is a monotonic time source that can also wait.
type Clock interface {
	Now() time.Duration
	Sleep(d time.Duration)
}

type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now is the time since the clock was created.
func (c *SystemClock) Now() time.Duration { return time.Since(c.start) }

func (c *SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Hardware is the set of collaborators the loop drives the engine with.
type Hardware struct {
	Audio  AudioSource
	Button ButtonSource
	Clock  Clock
}

// Pace sleeps out the rest of the frame that began at start. A frame that
// overran the budget is not made up for.
func Pace(clk Clock, start, budget time.Duration) time.Duration {
	elapsed := clk.Now() - start
	if elapsed >= budget {
		return 0
	}
	d := budget - elapsed
	clk.Sleep(d)
	return d
}

// Run drives the engine until ctx ends. On the device nothing cancels it.
func (e *Engine) Run(ctx context.Context, hw Hardware) error {
	budget := e.FrameBudget()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := hw.Clock.Now()
		e.Tick(hw)
		Pace(hw.Clock, start, budget)
	}
}

// Tick samples the hardware once and steps the engine.
func (e *Engine) Tick(hw Hardware) FrameResult {
	fell := false
	if hw.Button != nil {
		hw.Button.Update()
		fell = hw.Button.Fell()
	}
	hw.Audio.Record(e.block)
	return e.Step(Inputs{Block: e.block, Fell: fell, Now: hw.Clock.Now()})
}
