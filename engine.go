package addigital

import (
	"io"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/emoryta/ADDigitalProj/internal/envelope"
	"github.com/emoryta/ADDigitalProj/internal/mode"
	"github.com/emoryta/ADDigitalProj/internal/render"
	"github.com/emoryta/ADDigitalProj/internal/topology"
)

type Option func(*engineConfig)

type engineConfig struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// WithRand seeds SOUND_SPARKLE. Tests pass a fixed source.
func WithRand(rng *rand.Rand) Option {
	return func(cfg *engineConfig) {
		cfg.rng = rng
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cfg *engineConfig) {
		cfg.logger = l
	}
}

// NewLogger builds the debug side channel. With debug off only mode changes
// and boot messages are written.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Inputs is what the hardware boundary hands the engine each frame.
type Inputs struct {
	Block []uint16
	Fell  bool
	Now   time.Duration
}

// FrameResult describes what one Step did.
type FrameResult struct {
	Mode    mode.Mode
	Changed bool
	Signals envelope.Signals
	Clock   render.Clock
}

// State is the engine's frame-to-frame memory.
type State struct {
	Envelope envelope.State
	Mode     mode.Mode
	Frame    uint64
}

// Engine owns all mutable light state. It is not safe for concurrent use;
// one loop drives it.
type Engine struct {
	cfg       Config
	extractor *envelope.Extractor
	machine   *mode.Machine
	renderer  *render.Renderer
	u         *topology.U
	log       *slog.Logger

	block   []uint16
	started bool
	lastNow time.Duration
	frame   uint64
	last    FrameResult
}

// NewEngine validates cfg and starts in cfg.StartMode. Nothing is drawn
// until the first Step.
func NewEngine(cfg Config, u *topology.U, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ec := engineConfig{}
	for _, opt := range opts {
		opt(&ec)
	}
	if ec.rng == nil {
		ec.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if ec.logger == nil {
		ec.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	machine, err := mode.NewMachine(cfg.ModeSet(), cfg.StartMode)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:       cfg,
		extractor: envelope.New(cfg.EnvelopeParams()),
		machine:   machine,
		renderer:  render.New(cfg.Render, ec.rng),
		u:         u,
		log:       ec.logger,
		block:     make([]uint16, cfg.Samples),
	}
	e.log.Info("boot", "mode", machine.Current().String(), "variant", string(cfg.Variant))
	return e, nil
}

// Config is the validated configuration the engine runs with.
func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Topology() *topology.U { return e.u }

func (e *Engine) Mode() mode.Mode { return e.machine.Current() }

func (e *Engine) State() State {
	return State{
		Envelope: e.extractor.State(),
		Mode:     e.machine.Current(),
		Frame:    e.frame,
	}
}

// Last is the result of the most recent Step.
func (e *Engine) Last() FrameResult { return e.last }

// FrameBudget is the target frame period.
func (e *Engine) FrameBudget() time.Duration {
	return time.Second / time.Duration(e.cfg.FPS)
}

// Step runs one frame: extract, handle the button, render, commit.
func (e *Engine) Step(in Inputs) FrameResult {
	sig := e.extractor.Extract(in.Block)

	m, changed := e.machine.Update(in.Fell)
	if changed {
		e.log.Info("mode", "mode", m.String())
		e.u.Clear()
		e.u.Show()
	}

	if !e.started {
		e.started = true
		e.lastNow = in.Now
	}
	dt := in.Now - e.lastNow
	if dt < 0 {
		dt = 0
	}
	e.lastNow = in.Now
	clk := render.Clock{Now: in.Now.Seconds(), DT: dt.Seconds()}

	e.renderer.Render(m, render.Frame{Signals: sig, Clock: clk}, e.u)
	e.u.Show()

	if e.frame%uint64(e.cfg.FPS) == 0 {
		e.log.Debug("frame",
			"r", round(sig.RMS, 4),
			"n", round(sig.Loudness, 3),
			"p", round(sig.Punch, 3),
			"g", round(sig.AutoGain, 2),
			"m", m.String())
	}
	e.frame++

	e.last = FrameResult{Mode: m, Changed: changed, Signals: sig, Clock: clk}
	return e.last
}

func round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}
