// Package pwrseq implements the MMC power sequence for WILC wireless chips.
package pwrseq

import (
	"context"
	"math/rand/v2"
	"time"

	"go.viam.com/rdk/logging"
)

// Property names read from the board description.
const (
	ExtClockName           = "ext_clock"
	ResetName              = "reset"
	PostPowerOnDelayMsName = "post-power-on-delay-ms"
	PowerOffDelayUsName    = "power-off-delay-us"
)

const (
	// 5ms between releasing each reset line
	resetStaggerDelay = 5 * time.Millisecond
	// settle time after power on when no delay is configured
	defaultPostPowerOnDelay = 5 * time.Millisecond
)

// Sequencer is the power sequence policy a host controller invokes.
type Sequencer interface {
	PreparePowerOn(ctx context.Context)
	CompletePowerOn(ctx context.Context)
	PowerOff(ctx context.Context)
}

// Clock is a gateable clock feeding the chip.
type Clock interface {
	PrepareEnable(ctx context.Context) error
	DisableUnprepare(ctx context.Context) error
}

// Lines is an ordered array of digital outputs written as one batch.
type Lines interface {
	Len() int
	SetValues(ctx context.Context, values []bool) error
}

// State is the power state implied by the last phase that ran.
type State int

const (
	// Unpowered is the initial state and the state after PowerOff.
	Unpowered State = iota
	// PoweringOn is the state after PreparePowerOn.
	PoweringOn
	// Powered is the state after CompletePowerOn.
	Powered
)

func (s State) String() string {
	switch s {
	case Unpowered:
		return "unpowered"
	case PoweringOn:
		return "powering_on"
	case Powered:
		return "powered"
	default:
		return "unknown"
	}
}

// Config holds the timing read from the board description.
type Config struct {
	PostPowerOnDelayMs uint32
	PowerOffDelayUs    uint32
}

// WILC sequences the external clock and the reset lines of a WILC chip.
// It is not safe for concurrent use; the host serializes the phases.
type WILC struct {
	logger logging.Logger

	clock Clock
	lines Lines

	clockEnabled     bool
	postPowerOnDelay time.Duration
	powerOffDelay    time.Duration
	state            State

	sleep          func(time.Duration)
	randomDuration func(lo, hi time.Duration) time.Duration
}

// Option configures a WILC.
type Option func(*WILC)

// WithSleep replaces the blocking sleep used between steps.
func WithSleep(sleep func(time.Duration)) Option {
	return func(w *WILC) {
		w.sleep = sleep
	}
}

// WithRandomDuration replaces the picker for the power off range, which must
// return a value in [lo, hi).
func WithRandomDuration(pick func(lo, hi time.Duration) time.Duration) Option {
	return func(w *WILC) {
		w.randomDuration = pick
	}
}

// New returns a sequencer for the given resources. Either may be nil.
func New(clock Clock, lines Lines, cfg Config, logger logging.Logger, opts ...Option) *WILC {
	w := &WILC{
		logger:           logger,
		clock:            clock,
		lines:            lines,
		postPowerOnDelay: time.Duration(cfg.PostPowerOnDelayMs) * time.Millisecond,
		powerOffDelay:    time.Duration(cfg.PowerOffDelayUs) * time.Microsecond,
		sleep:            time.Sleep,
		randomDuration:   randomDuration,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func randomDuration(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo)
}

// PreparePowerOn enables the clock and asserts every reset line at once.
func (w *WILC) PreparePowerOn(ctx context.Context) {
	if w.clock != nil && !w.clockEnabled {
		if err := w.clock.PrepareEnable(ctx); err != nil {
			w.logger.Errorf("failed to enable %s: %v", ExtClockName, err)
		} else {
			w.clockEnabled = true
		}
	}

	w.setLines(ctx, true, 0)
	w.state = PoweringOn
}

// CompletePowerOn releases the reset lines one at a time and waits for the chip to settle.
func (w *WILC) CompletePowerOn(ctx context.Context) {
	w.setLines(ctx, false, resetStaggerDelay)

	if w.postPowerOnDelay != 0 {
		w.sleep(w.postPowerOnDelay)
	} else {
		w.sleep(defaultPostPowerOnDelay)
	}
	w.state = Powered
}

// PowerOff asserts the reset lines and gates the clock.
func (w *WILC) PowerOff(ctx context.Context) {
	w.setLines(ctx, true, 0)

	if w.powerOffDelay != 0 {
		w.sleep(w.randomDuration(w.powerOffDelay, 2*w.powerOffDelay))
	}

	if w.clock != nil && w.clockEnabled {
		if err := w.clock.DisableUnprepare(ctx); err != nil {
			w.logger.Errorf("failed to disable %s: %v", ExtClockName, err)
		}
		w.clockEnabled = false
	}
	w.state = Unpowered
}

// setLines drives every reset line to value. With a non-zero delay the lines
// switch one at a time in index order, starting from !value, waiting delay
// after each write.
func (w *WILC) setLines(ctx context.Context, value bool, delay time.Duration) {
	if w.lines == nil {
		return
	}
	n := w.lines.Len()
	values := make([]bool, n)

	if delay == 0 {
		for i := range values {
			values[i] = value
		}
		w.write(ctx, values)
		return
	}

	for i := range values {
		values[i] = !value
	}
	for i := range values {
		values[i] = value
		w.logger.Debugf("reset line %d -> %v", i, value)
		w.write(ctx, values)
		w.sleep(delay)
	}
}

func (w *WILC) write(ctx context.Context, values []bool) {
	if err := w.lines.SetValues(ctx, values); err != nil {
		w.logger.Warnf("failed to set %s lines to %v: %v", ResetName, values, err)
	}
}

// ClockEnabled reports whether the clock is currently enabled.
func (w *WILC) ClockEnabled() bool {
	return w.clockEnabled
}

// State returns the power state implied by the last phase that ran.
func (w *WILC) State() State {
	return w.state
}

// ResetLines returns the number of reset lines, 0 when none are wired.
func (w *WILC) ResetLines() int {
	if w.lines == nil {
		return 0
	}
	return w.lines.Len()
}
