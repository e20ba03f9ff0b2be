// Package periphgpio adapts periph.io pins to reset lines and clocks.
package periphgpio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var errNoPin = errors.New("no such pin")

var (
	initOnce sync.Once
	errInit  error
)

// Init loads the periph host drivers once.
func Init() error {
	initOnce.Do(func() {
		_, errInit = host.Init()
	})
	return errInit
}

// ByName looks up a registered pin.
func ByName(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", errNoPin, name)
	}
	return p, nil
}

// Lines writes a set of periph pins in index order.
type Lines struct {
	pins []gpio.PinOut
}

// NewLines drives every pin to initial and returns them as one line set.
func NewLines(pins []gpio.PinOut, initial bool) (*Lines, error) {
	l := &Lines{pins: pins}
	values := make([]bool, len(pins))
	for i := range values {
		values[i] = initial
	}
	if err := l.SetValues(context.Background(), values); err != nil {
		return nil, err
	}
	return l, nil
}

// Len returns the number of pins.
func (l *Lines) Len() int {
	return len(l.pins)
}

// SetValues writes each pin.
func (l *Lines) SetValues(ctx context.Context, values []bool) error {
	var errs []error
	for i, p := range l.pins {
		if err := p.Out(gpio.Level(values[i])); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// PWMClock drives a square wave on a PWM capable pin.
type PWMClock struct {
	pin  gpio.PinOut
	freq physic.Frequency
}

// NewPWMClock returns a clock at freqHz on pin.
func NewPWMClock(pin gpio.PinOut, freqHz uint64) *PWMClock {
	return &PWMClock{pin: pin, freq: physic.Frequency(freqHz) * physic.Hertz}
}

// PrepareEnable starts the square wave.
func (c *PWMClock) PrepareEnable(ctx context.Context) error {
	return c.pin.PWM(gpio.DutyHalf, c.freq)
}

// DisableUnprepare stops the wave and holds the pin low.
func (c *PWMClock) DisableUnprepare(ctx context.Context) error {
	return c.pin.Out(gpio.Low)
}
