package boarddesc

import (
	"context"
	"errors"
	"io"

	"github.com/viam-modules/wilc/gpio"
	"github.com/viam-modules/wilc/periphgpio"
	"github.com/viam-modules/wilc/pwrseq"
	pgpio "periph.io/x/conn/v3/gpio"
)

// Resolver acquires the resources of a Description and owns them until Close.
type Resolver struct {
	desc    *Description
	closers []io.Closer
}

// NewResolver returns a resolver for d.
func NewResolver(d *Description) *Resolver {
	return &Resolver{desc: d}
}

// Clock acquires the external clock.
func (r *Resolver) Clock(ctx context.Context, name string) (pwrseq.Clock, error) {
	c := r.desc.ExtClock
	if c == nil {
		return nil, pwrseq.ErrResourceUnavailable
	}

	var enable pwrseq.Lines
	switch r.desc.Backend {
	case BackendPeriph:
		pin, err := r.periphPin(c.Pin)
		if err != nil {
			return nil, err
		}
		if c.FreqHz != 0 {
			return periphgpio.NewPWMClock(pin, c.FreqHz), nil
		}
		l, err := periphgpio.NewLines([]pgpio.PinOut{pin}, false)
		if err != nil {
			return nil, err
		}
		enable = l
	case BackendPinctrl:
		l, err := gpio.NewPinctrlLines([]int{*c.Line}, false)
		if err != nil {
			return nil, err
		}
		enable = l
	default:
		l, err := r.requestLines(c.Chip, []int{*c.Line}, false)
		if err != nil {
			return nil, err
		}
		enable = l
	}

	clock, err := pwrseq.NewLineClock(enable)
	if err != nil {
		return nil, err
	}
	return clock, nil
}

// Lines acquires the reset lines, driven high.
func (r *Resolver) Lines(ctx context.Context, name string) (pwrseq.Lines, error) {
	d := r.desc.Reset
	if d == nil || (len(d.Lines) == 0 && len(d.Pins) == 0) {
		return nil, pwrseq.ErrResourceUnavailable
	}

	switch r.desc.Backend {
	case BackendPinctrl:
		l, err := gpio.NewPinctrlLines(d.Lines, true)
		if err != nil {
			return nil, err
		}
		return l, nil
	case BackendPeriph:
		pins := make([]pgpio.PinOut, 0, len(d.Pins))
		for _, pinName := range d.Pins {
			pin, err := r.periphPin(pinName)
			if err != nil {
				return nil, err
			}
			pins = append(pins, pin)
		}
		l, err := periphgpio.NewLines(pins, true)
		if err != nil {
			return nil, err
		}
		return l, nil
	}

	l, err := r.requestLines(d.Chip, d.Lines, true)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// PropertyU32 returns an integer property of the description.
func (r *Resolver) PropertyU32(name string) (uint32, bool) {
	return r.desc.PropertyU32(name)
}

// Close releases every acquired line.
func (r *Resolver) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	r.closers = nil
	return errors.Join(errs...)
}

func (r *Resolver) periphPin(name string) (pgpio.PinIO, error) {
	if err := periphgpio.Init(); err != nil {
		return nil, err
	}
	return periphgpio.ByName(name)
}
