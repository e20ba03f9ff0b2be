// Package boarddesc loads a WILC power sequence description from YAML and
// resolves the resources it names.
package boarddesc

import (
	"errors"
	"fmt"
	"os"

	"github.com/viam-modules/wilc/pwrseq"
	"gopkg.in/yaml.v3"
)

// Compatible is the only compatible string a description may carry.
const Compatible = "mmc-pwrseq-wilc"

// Backends.
const (
	BackendGPIOCDev = "gpiocdev"
	BackendPeriph   = "periph"
	BackendPinctrl  = "pinctrl"
)

var (
	errCompatible  = fmt.Errorf("compatible must be %q", Compatible)
	errBackend     = errors.New("backend must be gpiocdev, periph or pinctrl")
	errClockSource = errors.New("ext_clock needs exactly one of line or pin")
	errResetSource = errors.New("reset needs lines or pins, not both")
	errNoChip      = errors.New("gpiocdev backend needs a chip")
	errFreqCDev    = errors.New("gpiocdev backend cannot generate a clock, use an enable line")
	errNoPinName   = errors.New("periph backend needs pin names")
	errNoOffsets   = errors.New("pinctrl backend needs line numbers")
	errFreqPinctrl = errors.New("pinctrl backend cannot generate a clock, use an enable line")
)

// ClockDesc describes the external clock.
type ClockDesc struct {
	Chip   string `yaml:"chip,omitempty"`
	Line   *int   `yaml:"line,omitempty"`
	Pin    string `yaml:"pin,omitempty"`
	FreqHz uint64 `yaml:"freq_hz,omitempty"`
}

// LinesDesc describes the reset lines, in sequencing order.
type LinesDesc struct {
	Chip  string   `yaml:"chip,omitempty"`
	Lines []int    `yaml:"lines,omitempty"`
	Pins  []string `yaml:"pins,omitempty"`
}

// Description is one power sequence node.
type Description struct {
	Compatible         string     `yaml:"compatible,omitempty"`
	Backend            string     `yaml:"backend,omitempty"`
	ExtClock           *ClockDesc `yaml:"ext_clock,omitempty"`
	Reset              *LinesDesc `yaml:"reset,omitempty"`
	PostPowerOnDelayMs *uint32    `yaml:"post-power-on-delay-ms,omitempty"`
	PowerOffDelayUs    *uint32    `yaml:"power-off-delay-us,omitempty"`
}

// Load reads and validates a description file.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a description.
func Parse(data []byte) (*Description, error) {
	d := &Description{}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("parse description: %w", err)
	}
	if d.Backend == "" {
		d.Backend = BackendGPIOCDev
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks that the description is usable by its backend.
func (d *Description) Validate() error {
	if d.Compatible != "" && d.Compatible != Compatible {
		return errCompatible
	}
	switch d.Backend {
	case BackendGPIOCDev, BackendPeriph, BackendPinctrl:
	default:
		return errBackend
	}

	if c := d.ExtClock; c != nil {
		if (c.Line == nil) == (c.Pin == "") {
			return errClockSource
		}
		switch d.Backend {
		case BackendGPIOCDev:
			if c.Line == nil || c.Chip == "" {
				return fmt.Errorf("%s: %w", pwrseq.ExtClockName, errNoChip)
			}
			if c.FreqHz != 0 {
				return errFreqCDev
			}
		case BackendPeriph:
			if c.Pin == "" {
				return fmt.Errorf("%s: %w", pwrseq.ExtClockName, errNoPinName)
			}
		case BackendPinctrl:
			if c.Line == nil {
				return fmt.Errorf("%s: %w", pwrseq.ExtClockName, errNoOffsets)
			}
			if c.FreqHz != 0 {
				return errFreqPinctrl
			}
		}
	}

	if r := d.Reset; r != nil {
		if len(r.Lines) != 0 && len(r.Pins) != 0 {
			return errResetSource
		}
		switch d.Backend {
		case BackendGPIOCDev:
			if len(r.Pins) != 0 || (len(r.Lines) != 0 && r.Chip == "") {
				return fmt.Errorf("%s: %w", pwrseq.ResetName, errNoChip)
			}
		case BackendPeriph:
			if len(r.Lines) != 0 {
				return fmt.Errorf("%s: %w", pwrseq.ResetName, errNoPinName)
			}
		case BackendPinctrl:
			if len(r.Pins) != 0 {
				return fmt.Errorf("%s: %w", pwrseq.ResetName, errNoOffsets)
			}
		}
	}
	return nil
}

// PropertyU32 returns an integer property when the description sets it.
func (d *Description) PropertyU32(name string) (uint32, bool) {
	var v *uint32
	switch name {
	case pwrseq.PostPowerOnDelayMsName:
		v = d.PostPowerOnDelayMs
	case pwrseq.PowerOffDelayUsName:
		v = d.PowerOffDelayUs
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}
