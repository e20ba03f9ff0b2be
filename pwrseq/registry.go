package pwrseq

import (
	"errors"
	"sync"
)

// Registry errors.
var (
	ErrAlreadyRegistered = errors.New("power sequence already registered for device")
	ErrNotRegistered     = errors.New("no power sequence registered for device")
)

var (
	registryMu sync.Mutex
	registry   = make(map[string]Sequencer)
)

// Register makes seq available to the host controller of device.
func Register(device string, seq Sequencer) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[device]; ok {
		return ErrAlreadyRegistered
	}
	registry[device] = seq
	return nil
}

// Unregister removes the sequence bound to device, if any.
func Unregister(device string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, device)
}

// Lookup returns the sequence bound to device.
func Lookup(device string) (Sequencer, error) {
	registryMu.Lock()
	defer registryMu.Unlock()
	seq, ok := registry[device]
	if !ok {
		return nil, ErrNotRegistered
	}
	return seq, nil
}
