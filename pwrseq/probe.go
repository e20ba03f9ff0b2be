package pwrseq

import (
	"context"
	"errors"
	"fmt"

	"go.viam.com/rdk/logging"
)

// ErrResourceUnavailable is returned by a Resolver when the board description
// does not wire the requested resource.
var ErrResourceUnavailable = errors.New("resource not present")

// AcquisitionError is returned by Probe when a described resource could not be acquired.
type AcquisitionError struct {
	Resource string
	Err      error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("failed to acquire %s: %v", e.Resource, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// Resolver looks up the resources and properties of one device.
// Reset lines must be returned already driven high.
type Resolver interface {
	Clock(ctx context.Context, name string) (Clock, error)
	Lines(ctx context.Context, name string) (Lines, error)
	PropertyU32(name string) (uint32, bool)
}

// Probe builds a sequencer from the resources the resolver provides.
// Missing resources leave the sequencer without them; any other failure aborts.
func Probe(ctx context.Context, r Resolver, logger logging.Logger, opts ...Option) (*WILC, error) {
	clock, err := r.Clock(ctx, ExtClockName)
	switch {
	case errors.Is(err, ErrResourceUnavailable):
		logger.Debugf("no %s wired", ExtClockName)
		clock = nil
	case err != nil:
		return nil, &AcquisitionError{Resource: ExtClockName, Err: err}
	}

	lines, err := r.Lines(ctx, ResetName)
	switch {
	case errors.Is(err, ErrResourceUnavailable):
		logger.Debugf("no %s lines wired", ResetName)
		lines = nil
	case err != nil:
		return nil, &AcquisitionError{Resource: ResetName, Err: err}
	}

	var cfg Config
	if v, ok := r.PropertyU32(PostPowerOnDelayMsName); ok {
		cfg.PostPowerOnDelayMs = v
	}
	if v, ok := r.PropertyU32(PowerOffDelayUsName); ok {
		cfg.PowerOffDelayUs = v
	}

	return New(clock, lines, cfg, logger, opts...), nil
}
