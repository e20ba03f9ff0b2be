// Package gpio drives lines with the Raspberry Pi pinctrl tool.
package gpio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// the pins need time after switching to outputs before they follow writes.
var outputSettle = 100 * time.Millisecond

var runPinctrl = func(args ...string) ([]byte, error) {
	return exec.Command("pinctrl", args...).CombinedOutput()
}

func pinctrlSet(pin string, state string) error {
	output, err := runPinctrl("set", pin, state)
	if err == nil {
		return nil
	}

	return fmt.Errorf("error setting GPIO %s to %s: %w output: %v", pin, state, err, string(output))
}

func level(high bool) string {
	if high {
		return "dh"
	}
	return "dl"
}

// PinctrlLines is a set of BCM pins driven through pinctrl.
type PinctrlLines struct {
	pins []string
}

// NewPinctrlLines switches pins to outputs and drives them to initial.
func NewPinctrlLines(pins []int, initial bool) (*PinctrlLines, error) {
	l := &PinctrlLines{}
	for _, p := range pins {
		pin := strconv.Itoa(p)
		if err := pinctrlSet(pin, "op"); err != nil {
			return nil, err
		}
		l.pins = append(l.pins, pin)
	}
	time.Sleep(outputSettle)

	for _, pin := range l.pins {
		if err := pinctrlSet(pin, level(initial)); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Len returns the number of pins.
func (l *PinctrlLines) Len() int {
	return len(l.pins)
}

// SetValues drives each pin in order. pinctrl has no batch write.
func (l *PinctrlLines) SetValues(ctx context.Context, values []bool) error {
	var errs []error
	for i, pin := range l.pins {
		if err := pinctrlSet(pin, level(values[i])); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
