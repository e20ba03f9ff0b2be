//go:build linux

// Package cdev drives reset and clock enable lines through the Linux GPIO character device.
package cdev

import (
	"context"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "wilc-pwrseq"

// Lines is a set of lines on one chip requested together, so every write
// lands on all of them at once.
type Lines struct {
	req     *gpiocdev.Lines
	offsets []int
}

// RequestLines requests offsets on chip as outputs, all starting at initial.
func RequestLines(chip string, offsets []int, initial bool) (*Lines, error) {
	values := make([]int, len(offsets))
	for i := range values {
		values[i] = toLevel(initial)
	}
	req, err := gpiocdev.RequestLines(chip, offsets,
		gpiocdev.WithConsumer(consumer),
		gpiocdev.AsOutput(values...))
	if err != nil {
		return nil, fmt.Errorf("request lines %v on %s: %w", offsets, chip, err)
	}
	return &Lines{req: req, offsets: offsets}, nil
}

// Len returns the number of requested lines.
func (l *Lines) Len() int {
	return len(l.offsets)
}

// SetValues sets all lines in a single request.
func (l *Lines) SetValues(ctx context.Context, values []bool) error {
	levels := make([]int, len(values))
	for i, v := range values {
		levels[i] = toLevel(v)
	}
	return l.req.SetValues(levels)
}

// Close releases the lines.
func (l *Lines) Close() error {
	return l.req.Close()
}

func toLevel(high bool) int {
	if high {
		return 1
	}
	return 0
}
