package synap

import (
	"errors"
	"fmt"
	"sync"
)

// Runtime is the inference client that owns loaded-model state.
// Inputs and Outputs return one buffer per slot in descriptor order and are
// valid after a successful Load.
type Runtime interface {
	Load(ebg []byte, descriptor string) error
	Predict() error
	Inputs() [][]byte
	Outputs() [][]byte
	Close() error
}

// PredictFunc computes outputs from inputs for HostRuntime.
type PredictFunc func(inputs, outputs [][]byte) error

// HostRuntime is a pure-Go Runtime. It sizes its slot buffers from the
// descriptor and delegates Predict to a PredictFunc.
type HostRuntime struct {
	mu       sync.Mutex
	predict  PredictFunc
	artifact []byte
	inputs   [][]byte
	outputs  [][]byte
	loaded   bool
	closed   bool
}

var _ Runtime = (*HostRuntime)(nil)

// NewHostRuntime returns a HostRuntime; a nil fn selects Loopback.
func NewHostRuntime(fn PredictFunc) *HostRuntime {
	if fn == nil {
		fn = Loopback
	}
	return &HostRuntime{predict: fn}
}

func (r *HostRuntime) Load(ebg []byte, descriptor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.New("runtime closed")
	}
	if len(ebg) == 0 {
		return errors.New("empty artifact")
	}
	d, err := ParseDescriptor(descriptor)
	if err != nil {
		return err
	}
	r.artifact = append([]byte(nil), ebg...)
	r.inputs = allocSlots(d.Inputs)
	r.outputs = allocSlots(d.Outputs)
	r.loaded = true
	return nil
}

func allocSlots(sizes []int) [][]byte {
	out := make([][]byte, len(sizes))
	for i, n := range sizes {
		out[i] = make([]byte, n)
	}
	return out
}

func (r *HostRuntime) Predict() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return errors.New("no model loaded")
	}
	if err := r.predict(r.inputs, r.outputs); err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	return nil
}

func (r *HostRuntime) Inputs() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputs
}

func (r *HostRuntime) Outputs() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outputs
}

// Artifact returns a copy of the loaded artifact.
func (r *HostRuntime) Artifact() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.artifact...)
}

func (r *HostRuntime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.loaded = false
	r.artifact, r.inputs, r.outputs = nil, nil, nil
	return nil
}

// Loopback fills every output cyclically from the concatenated inputs.
// Outputs are zeroed when there is no input data.
func Loopback(inputs, outputs [][]byte) error {
	var src []byte
	for _, in := range inputs {
		src = append(src, in...)
	}
	for _, out := range outputs {
		if len(src) == 0 {
			clear(out)
			continue
		}
		for i := range out {
			out[i] = src[i%len(src)]
		}
	}
	return nil
}
