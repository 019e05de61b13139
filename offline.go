package addigital

import (
	"time"

	"github.com/emoryta/ADDigitalProj/internal/color"
	"github.com/emoryta/ADDigitalProj/internal/topology"
)

// OfflineFrame is one rendered frame in logical U order, before the global
// brightness is applied.
type OfflineFrame struct {
	FrameResult
	Pixels []color.RGB
}

// NewTopology builds the two-strip U for cfg, committing to out.
func NewTopology(cfg Config, left, right topology.Output) (*topology.U, error) {
	opts := topology.BufferOptions{Brightness: cfg.Brightness, AutoWrite: cfg.AutoWrite}
	return topology.NewU(
		topology.NewBuffer(cfg.LEDsPerSide, left, opts),
		topology.NewBuffer(cfg.LEDsPerSide, right, opts),
	)
}

// RenderOffline runs frames frames from src at exactly the target frame
// rate, with no sleeping. presses lists frame numbers that see a button
// press.
func RenderOffline(cfg Config, src AudioSource, frames int, presses []int, opts ...Option) ([]OfflineFrame, error) {
	u, err := NewTopology(cfg, nil, nil)
	if err != nil {
		return nil, err
	}
	e, err := NewEngine(cfg, u, opts...)
	if err != nil {
		return nil, err
	}
	press := make(map[int]bool, len(presses))
	for _, p := range presses {
		press[p] = true
	}
	budget := e.FrameBudget()
	out := make([]OfflineFrame, 0, frames)
	for i := 0; i < frames; i++ {
		src.Record(e.block)
		res := e.Step(Inputs{Block: e.block, Fell: press[i], Now: time.Duration(i) * budget})
		out = append(out, OfflineFrame{FrameResult: res, Pixels: u.Snapshot()})
	}
	return out, nil
}
