package wilc

import (
	"context"
	"errors"
	"fmt"

	"github.com/viam-modules/wilc/pwrseq"
	"go.viam.com/rdk/components/board"
)

const clockDutyCycle = 0.5

// boardLines writes a set of board GPIO pins in index order.
type boardLines struct {
	pins []board.GPIOPin
}

func (l *boardLines) Len() int {
	return len(l.pins)
}

// SetValues writes every pin, continuing past failures so one bad pin
// does not leave the others behind.
func (l *boardLines) SetValues(ctx context.Context, values []bool) error {
	var errs []error
	for i, pin := range l.pins {
		if err := pin.Set(ctx, values[i], nil); err != nil {
			errs = append(errs, fmt.Errorf("pin %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// pwmClock generates the external clock as a square wave on a PWM capable pin.
type pwmClock struct {
	pin    board.GPIOPin
	freqHz uint
}

func (c *pwmClock) PrepareEnable(ctx context.Context) error {
	if err := c.pin.SetPWMFreq(ctx, c.freqHz, nil); err != nil {
		return err
	}
	return c.pin.SetPWM(ctx, clockDutyCycle, nil)
}

func (c *pwmClock) DisableUnprepare(ctx context.Context) error {
	return c.pin.SetPWM(ctx, 0, nil)
}

// boardResolver resolves the pins named in a Config on a board.
type boardResolver struct {
	board board.Board
	cfg   *Config
}

func (r *boardResolver) Clock(ctx context.Context, name string) (pwrseq.Clock, error) {
	if r.cfg.ExtClockPin == "" {
		return nil, pwrseq.ErrResourceUnavailable
	}
	pin, err := r.board.GPIOPinByName(r.cfg.ExtClockPin)
	if err != nil {
		return nil, err
	}
	if r.cfg.ExtClockFreqHz != 0 {
		return &pwmClock{pin: pin, freqHz: r.cfg.ExtClockFreqHz}, nil
	}
	// no frequency means the pin gates an oscillator, keep it off until power on.
	enable := &boardLines{pins: []board.GPIOPin{pin}}
	if err := enable.SetValues(ctx, []bool{false}); err != nil {
		return nil, err
	}
	clock, err := pwrseq.NewLineClock(enable)
	if err != nil {
		return nil, err
	}
	return clock, nil
}

func (r *boardResolver) Lines(ctx context.Context, name string) (pwrseq.Lines, error) {
	if len(r.cfg.ResetPins) == 0 {
		return nil, pwrseq.ErrResourceUnavailable
	}
	lines := &boardLines{}
	for _, pinName := range r.cfg.ResetPins {
		pin, err := r.board.GPIOPinByName(pinName)
		if err != nil {
			return nil, err
		}
		lines.pins = append(lines.pins, pin)
	}

	// reset lines start out asserted.
	values := make([]bool, lines.Len())
	for i := range values {
		values[i] = true
	}
	if err := lines.SetValues(ctx, values); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *boardResolver) PropertyU32(name string) (uint32, bool) {
	switch name {
	case pwrseq.PostPowerOnDelayMsName:
		return r.cfg.PostPowerOnDelayMs, r.cfg.PostPowerOnDelayMs != 0
	case pwrseq.PowerOffDelayUsName:
		return r.cfg.PowerOffDelayUs, r.cfg.PowerOffDelayUs != 0
	default:
		return 0, false
	}
}
