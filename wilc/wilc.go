// Package wilc implements a power sequence component for WILC wireless chips wired to a board.
package wilc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/viam-modules/wilc/pwrseq"
	"go.viam.com/rdk/components/board"
	"go.viam.com/rdk/components/generic"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
)

// Model represents the wilc mmc power sequence model.
var Model = resource.NewModel("viam", "wilc", "mmc-pwrseq")

// Error variables for validation and commands
var (
	errEmptyPinName     = errors.New("reset pin names cannot be empty")
	errClockFreqWithout = errors.New("ext_clock_freq_hz requires ext_clock_pin")
	errUnknownCommand   = errors.New("unknown command")
)

// DoCommand keys.
const (
	cmdPrePowerOn  = "pre_power_on"
	cmdPostPowerOn = "post_power_on"
	cmdPowerOff    = "power_off"
	cmdPowerCycle  = "power_cycle"
	cmdStatus      = "status"
)

// Config describes the configuration of the power sequence.
type Config struct {
	BoardName          string   `json:"board"`
	ResetPins          []string `json:"reset_pins,omitempty"`
	ExtClockPin        string   `json:"ext_clock_pin,omitempty"`
	ExtClockFreqHz     uint     `json:"ext_clock_freq_hz,omitempty"`
	PostPowerOnDelayMs uint32   `json:"post_power_on_delay_ms,omitempty"`
	PowerOffDelayUs    uint32   `json:"power_off_delay_us,omitempty"`
}

func init() {
	resource.RegisterComponent(
		generic.API,
		Model,
		resource.Registration[resource.Resource, *Config]{
			Constructor: NewPowerSequence,
		})
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.BoardName == "" {
		return nil, resource.NewConfigValidationFieldRequiredError(path, "board")
	}
	for _, name := range conf.ResetPins {
		if name == "" {
			return nil, resource.NewConfigValidationError(path, errEmptyPinName)
		}
	}
	if conf.ExtClockFreqHz != 0 && conf.ExtClockPin == "" {
		return nil, resource.NewConfigValidationError(path, errClockFreqWithout)
	}
	return []string{conf.BoardName}, nil
}

type powerSequence struct {
	resource.Named
	resource.AlwaysRebuild
	logger logging.Logger

	// DoCommand calls arrive concurrently; the phases must not interleave.
	mu  sync.Mutex
	seq *pwrseq.WILC
}

// NewPowerSequence creates a new power sequence bound to its board pins.
func NewPowerSequence(
	ctx context.Context,
	deps resource.Dependencies,
	conf resource.Config,
	logger logging.Logger,
) (resource.Resource, error) {
	return newPowerSequence(ctx, deps, conf, logger)
}

func newPowerSequence(
	ctx context.Context,
	deps resource.Dependencies,
	conf resource.Config,
	logger logging.Logger,
	opts ...pwrseq.Option,
) (*powerSequence, error) {
	cfg, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}

	b, err := board.FromDependencies(deps, cfg.BoardName)
	if err != nil {
		return nil, err
	}

	seq, err := pwrseq.Probe(ctx, &boardResolver{board: b, cfg: cfg}, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("error setting up the power sequence: %w", err)
	}

	ps := &powerSequence{
		Named:  conf.ResourceName().AsNamed(),
		logger: logger,
		seq:    seq,
	}
	if err := pwrseq.Register(ps.Name().ShortName(), ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// DoCommand runs the power sequence phases on behalf of the host.
// A phase runs only when its key is set to true.
func (ps *powerSequence) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	switch {
	case isSet(cmd, cmdPrePowerOn):
		ps.seq.PreparePowerOn(ctx)
	case isSet(cmd, cmdPostPowerOn):
		ps.seq.CompletePowerOn(ctx)
	case isSet(cmd, cmdPowerOff):
		ps.seq.PowerOff(ctx)
	case isSet(cmd, cmdPowerCycle):
		ps.seq.PowerOff(ctx)
		ps.seq.PreparePowerOn(ctx)
		ps.seq.CompletePowerOn(ctx)
	case hasAnyKey(cmd, cmdStatus, cmdPrePowerOn, cmdPostPowerOn, cmdPowerOff, cmdPowerCycle):
		// status, or a phase set to false: report without touching the chip.
	default:
		return nil, errUnknownCommand
	}
	return ps.status(), nil
}

func isSet(cmd map[string]interface{}, key string) bool {
	v, ok := cmd[key].(bool)
	return ok && v
}

func hasAnyKey(cmd map[string]interface{}, keys ...string) bool {
	for _, k := range keys {
		if _, ok := cmd[k]; ok {
			return true
		}
	}
	return false
}

func (ps *powerSequence) status() map[string]interface{} {
	return map[string]interface{}{
		"state":         ps.seq.State().String(),
		"clock_enabled": ps.seq.ClockEnabled(),
		"reset_lines":   ps.seq.ResetLines(),
	}
}

// PreparePowerOn runs the pre power on phase for hosts that look the sequence up.
func (ps *powerSequence) PreparePowerOn(ctx context.Context) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.seq.PreparePowerOn(ctx)
}

// CompletePowerOn runs the post power on phase.
func (ps *powerSequence) CompletePowerOn(ctx context.Context) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.seq.CompletePowerOn(ctx)
}

// PowerOff runs the power off phase.
func (ps *powerSequence) PowerOff(ctx context.Context) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.seq.PowerOff(ctx)
}

// Close unregisters the power sequence once any running phase finishes.
// The pins are left as they are.
func (ps *powerSequence) Close(ctx context.Context) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	pwrseq.Unregister(ps.Name().ShortName())
	return nil
}
