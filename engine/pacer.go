package engine

import (
	"time"

	"superengine/config"
)

// PacingMode selects how updates are scheduled
type PacingMode int

const (
	// PacingVariable runs exactly one update per core iteration with the
	// wall time since the previous iteration
	PacingVariable PacingMode = iota
	// PacingFixed runs zero or more updates of a fixed step from an
	// accumulator, capped per iteration
	PacingFixed
)

// ParsePacingMode maps a config value to a PacingMode
func ParsePacingMode(s string) PacingMode {
	if s == config.PacingFixed {
		return PacingFixed
	}
	return PacingVariable
}

func (m PacingMode) String() string {
	if m == PacingFixed {
		return config.PacingFixed
	}
	return config.PacingVariable
}

// Frame is the pacer's decision for one core iteration
type Frame struct {
	// Updates is how many times the game update runs this iteration
	Updates int
	// Delta is the elapsed seconds handed to each update
	Delta float64
	// Render is true when a render pass is due
	Render bool
	// Alpha is the fraction of a fixed step left in the accumulator, in [0,1)
	Alpha float64
	// Yield is true when nothing is due to be drawn and the loop may sleep
	Yield bool
}

// PacerConfig configures a Pacer
type PacerConfig struct {
	FPS          int
	Mode         PacingMode
	FixedStep    time.Duration
	MaxUpdates   int
	MaxFrameTime time.Duration
	// Slack lets a render fire this much early to absorb host tick jitter
	Slack time.Duration
}

// PacerConfigFrom builds a PacerConfig from the timing section
func PacerConfigFrom(t config.Timing) PacerConfig {
	return PacerConfig{
		FPS:          t.FPS,
		Mode:         ParsePacingMode(t.Pacing),
		FixedStep:    t.FixedStep.Duration,
		MaxUpdates:   t.MaxUpdates,
		MaxFrameTime: t.MaxFrameTime.Duration,
		Slack:        time.Millisecond,
	}
}

// Pacer decides per core iteration how many updates run and whether a
// render is due. Renders are gated against a deadline that advances by the
// frame interval; when the loop falls more than two intervals behind the
// deadline resynchronises instead of bursting to catch up.
type Pacer struct {
	cfg      PacerConfig
	interval time.Duration

	started     bool
	last        time.Time
	nextRender  time.Time
	accumulator time.Duration
	dropped     time.Duration
	renders     uint64
	resyncs     uint64
}

// NewPacer creates a pacer
func NewPacer(cfg PacerConfig) *Pacer {
	p := &Pacer{cfg: cfg}
	p.SetFPS(cfg.FPS)
	if p.cfg.MaxUpdates < 1 {
		p.cfg.MaxUpdates = 1
	}
	if p.cfg.FixedStep <= 0 {
		p.cfg.FixedStep = time.Second / 60
	}
	if p.cfg.MaxFrameTime < p.cfg.FixedStep {
		p.cfg.MaxFrameTime = p.cfg.FixedStep * time.Duration(p.cfg.MaxUpdates)
	}
	return p
}

// SetFPS changes the render target; values below 1 are treated as 1
func (p *Pacer) SetFPS(fps int) {
	if fps < 1 {
		fps = 1
	}
	p.cfg.FPS = fps
	p.interval = time.Second / time.Duration(fps)
}

// Interval returns the time between renders
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Mode returns the pacing mode
func (p *Pacer) Mode() PacingMode {
	return p.cfg.Mode
}

// SetMode switches pacing mode; the accumulator is cleared
func (p *Pacer) SetMode(m PacingMode) {
	p.cfg.Mode = m
	p.accumulator = 0
}

// Dropped returns the simulated time discarded by the catch-up cap
func (p *Pacer) Dropped() time.Duration {
	return p.dropped
}

// Renders returns how many renders have been granted
func (p *Pacer) Renders() uint64 {
	return p.renders
}

// Resyncs returns how many times the render deadline was reset after
// falling behind
func (p *Pacer) Resyncs() uint64 {
	return p.resyncs
}

// Reset forgets all timing state; the next Step renders immediately
func (p *Pacer) Reset() {
	p.started = false
	p.accumulator = 0
	p.dropped = 0
	p.renders = 0
	p.resyncs = 0
}

// Step decides the work for the core iteration happening at now
func (p *Pacer) Step(now time.Time) Frame {
	if !p.started {
		p.started = true
		p.last = now
		p.nextRender = now
	}

	frameTime := now.Sub(p.last)
	if frameTime < 0 {
		frameTime = 0
	}
	p.last = now

	var f Frame
	switch p.cfg.Mode {
	case PacingFixed:
		if frameTime > p.cfg.MaxFrameTime {
			p.dropped += frameTime - p.cfg.MaxFrameTime
			frameTime = p.cfg.MaxFrameTime
		}

		p.accumulator += frameTime
		for p.accumulator >= p.cfg.FixedStep && f.Updates < p.cfg.MaxUpdates {
			p.accumulator -= p.cfg.FixedStep
			f.Updates++
		}
		// Drop whole steps the cap would not let us run
		if p.accumulator >= p.cfg.FixedStep {
			excess := p.accumulator - p.accumulator%p.cfg.FixedStep
			p.dropped += excess
			p.accumulator -= excess
		}

		f.Delta = p.cfg.FixedStep.Seconds()
		f.Alpha = float64(p.accumulator) / float64(p.cfg.FixedStep)

	default:
		f.Updates = 1
		f.Delta = frameTime.Seconds()
	}

	f.Render = p.renderDue(now)
	f.Yield = !f.Render
	return f
}

func (p *Pacer) renderDue(now time.Time) bool {
	if now.Before(p.nextRender.Add(-p.cfg.Slack)) {
		return false
	}

	p.renders++
	p.nextRender = p.nextRender.Add(p.interval)

	maxBehind := p.interval * 2
	if now.Sub(p.nextRender) > maxBehind {
		p.nextRender = now.Add(p.interval)
		p.resyncs++
	}
	return true
}
