package pwrseq

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.viam.com/rdk/logging"
	"go.viam.com/test"
)

type fakeResolver struct {
	clock    Clock
	clockErr error
	lines    Lines
	linesErr error
	props    map[string]uint32
}

func (r *fakeResolver) Clock(ctx context.Context, name string) (Clock, error) {
	if r.clockErr != nil {
		return nil, r.clockErr
	}
	return r.clock, nil
}

func (r *fakeResolver) Lines(ctx context.Context, name string) (Lines, error) {
	if r.linesErr != nil {
		return nil, r.linesErr
	}
	return r.lines, nil
}

func (r *fakeResolver) PropertyU32(name string) (uint32, bool) {
	v, ok := r.props[name]
	return v, ok
}

func TestProbe(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ctx := context.Background()
	rec := &recorder{}

	t.Run("all resources", func(t *testing.T) {
		r := &fakeResolver{
			clock: &fakeClock{rec: rec},
			lines: newFakeLines(rec, 2),
			props: map[string]uint32{PostPowerOnDelayMsName: 20, PowerOffDelayUsName: 100},
		}
		w, err := Probe(ctx, r, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, w.clock, test.ShouldNotBeNil)
		test.That(t, w.ResetLines(), test.ShouldEqual, 2)
		test.That(t, w.postPowerOnDelay, test.ShouldEqual, 20*time.Millisecond)
		test.That(t, w.powerOffDelay, test.ShouldEqual, 100*time.Microsecond)
	})

	t.Run("missing resources are tolerated", func(t *testing.T) {
		r := &fakeResolver{clockErr: ErrResourceUnavailable, linesErr: ErrResourceUnavailable}
		w, err := Probe(ctx, r, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, w.clock, test.ShouldBeNil)
		test.That(t, w.lines, test.ShouldBeNil)
		test.That(t, w.postPowerOnDelay, test.ShouldEqual, time.Duration(0))
		test.That(t, w.powerOffDelay, test.ShouldEqual, time.Duration(0))
	})

	t.Run("wrapped absence is tolerated", func(t *testing.T) {
		r := &fakeResolver{
			clockErr: errors.Join(errors.New("no ext_clock"), ErrResourceUnavailable),
			lines:    newFakeLines(rec, 1),
		}
		w, err := Probe(ctx, r, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, w.clock, test.ShouldBeNil)
	})

	t.Run("clock failure is fatal", func(t *testing.T) {
		errClock := errors.New("clock provider not ready")
		r := &fakeResolver{clockErr: errClock, lines: newFakeLines(rec, 1)}
		w, err := Probe(ctx, r, logger)
		test.That(t, w, test.ShouldBeNil)
		var acqErr *AcquisitionError
		test.That(t, errors.As(err, &acqErr), test.ShouldBeTrue)
		test.That(t, acqErr.Resource, test.ShouldEqual, ExtClockName)
		test.That(t, errors.Is(err, errClock), test.ShouldBeTrue)
	})

	t.Run("line failure is fatal", func(t *testing.T) {
		errLines := errors.New("line busy")
		r := &fakeResolver{clockErr: ErrResourceUnavailable, linesErr: errLines}
		w, err := Probe(ctx, r, logger)
		test.That(t, w, test.ShouldBeNil)
		test.That(t, err, test.ShouldBeError, &AcquisitionError{Resource: ResetName, Err: errLines})
	})
}
