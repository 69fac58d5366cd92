package synap

import "sync"

// Tensor is a handle to a logical tensor shared between the caller and a Graph.
// The Graph only moves bytes in and out of it.
type Tensor interface {
	// ByteSize reports the total size of the tensor data in bytes.
	ByteSize() int
	// CopyTo copies the tensor contents into dst.
	CopyTo(dst []byte)
	// CopyFrom replaces the tensor contents with src.
	CopyFrom(src []byte)
}

// HostTensor is a Tensor backed by a byte slice in host memory.
type HostTensor struct {
	mu   sync.RWMutex
	data []byte
}

var _ Tensor = (*HostTensor)(nil)

// NewHostTensor allocates a zeroed tensor of size bytes.
func NewHostTensor(size int) *HostTensor {
	return &HostTensor{data: make([]byte, size)}
}

func (t *HostTensor) ByteSize() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.data)
}

func (t *HostTensor) CopyTo(dst []byte) {
	t.mu.RLock()
	copy(dst, t.data)
	t.mu.RUnlock()
}

func (t *HostTensor) CopyFrom(src []byte) {
	t.mu.Lock()
	copy(t.data, src)
	t.mu.Unlock()
}

// Bytes returns a copy of the tensor contents.
func (t *HostTensor) Bytes() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]byte, len(t.data))
	copy(out, t.data)
	return out
}

// Binding pairs a declared tensor with the runtime slot at the same position.
type Binding struct {
	Slot   int
	Tensor Tensor
}

func bind(tensors []Tensor, slots int) ([]Binding, bool) {
	if len(tensors) != slots {
		return nil, false
	}
	out := make([]Binding, len(tensors))
	for i, t := range tensors {
		out[i] = Binding{Slot: i, Tensor: t}
	}
	return out, true
}
