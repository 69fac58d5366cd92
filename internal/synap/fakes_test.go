package synap

import (
	"context"
	"errors"
	"sync"
)

type fakeCompiler struct {
	nbg      []byte
	setupErr error
	sizeErr  error
	genErr   error
	zeroSize bool

	setups, sizeCalls, genCalls int
}

func (c *fakeCompiler) Setup() error {
	c.setups++
	return c.setupErr
}

func (c *fakeCompiler) NBGSize() (int, error) {
	c.sizeCalls++
	if c.sizeErr != nil {
		return 0, c.sizeErr
	}
	if c.zeroSize {
		return 0, nil
	}
	return len(c.nbg), nil
}

func (c *fakeCompiler) GenerateNBG(buf []byte) error {
	c.genCalls++
	if c.genErr != nil {
		return c.genErr
	}
	copy(buf, c.nbg)
	return nil
}

// xorTranscoder flips every byte so tests can tell NBG and EBG apart.
type xorTranscoder struct {
	err   error
	empty bool
	calls int
}

func (x *xorTranscoder) NBGToEBG(nbg []byte) ([]byte, error) {
	x.calls++
	if x.err != nil {
		return nil, x.err
	}
	if x.empty {
		return nil, nil
	}
	out := make([]byte, len(nbg))
	for i, b := range nbg {
		out[i] = b ^ 0xff
	}
	return out, nil
}

// fixedRuntime exposes a fixed slot layout regardless of the descriptor.
type fixedRuntime struct {
	inputs, outputs [][]byte
	loadErr         error
	predictErr      error
	descriptor      string
	predicted       [][]byte
	closed          int
}

func (r *fixedRuntime) Load(ebg []byte, descriptor string) error {
	r.descriptor = descriptor
	return r.loadErr
}

func (r *fixedRuntime) Predict() error {
	if r.predictErr != nil {
		return r.predictErr
	}
	r.predicted = nil
	for _, in := range r.inputs {
		r.predicted = append(r.predicted, append([]byte(nil), in...))
	}
	for i, out := range r.outputs {
		for j := range out {
			out[j] = byte(i + 1)
		}
	}
	return nil
}

func (r *fixedRuntime) Inputs() [][]byte  { return r.inputs }
func (r *fixedRuntime) Outputs() [][]byte { return r.outputs }
func (r *fixedRuntime) Close() error {
	r.closed++
	return nil
}

var errRemoteMiss = errors.New("remote miss")

type memRemote struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
	putErr  error
}

func newMemRemote() *memRemote { return &memRemote{objects: map[string][]byte{}} }

func (m *memRemote) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, errRemoteMiss
	}
	return append([]byte(nil), b...), nil
}

func (m *memRemote) Put(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = append([]byte(nil), data...)
	return nil
}
