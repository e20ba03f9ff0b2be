package pwrseq

import (
	"context"
	"errors"
)

var errLineClockWidth = errors.New("clock enable must be a single line")

// LineClock is an oscillator gated by a single enable line.
type LineClock struct {
	enable Lines
}

// NewLineClock returns a clock driven by the one line in enable.
func NewLineClock(enable Lines) (*LineClock, error) {
	if enable == nil || enable.Len() != 1 {
		return nil, errLineClockWidth
	}
	return &LineClock{enable: enable}, nil
}

// PrepareEnable drives the enable line high.
func (c *LineClock) PrepareEnable(ctx context.Context) error {
	return c.enable.SetValues(ctx, []bool{true})
}

// DisableUnprepare drives the enable line low.
func (c *LineClock) DisableUnprepare(ctx context.Context) error {
	return c.enable.SetValues(ctx, []bool{false})
}
