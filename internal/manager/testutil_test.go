package manager

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"synapd/internal/synap"
	"synapd/pkg/types"
)

// writeModel writes an NBG file holding data and returns a registry entry for it.
func writeModel(t *testing.T, dir, id string, data []byte, inputs, outputs []int) types.Model {
	t.Helper()
	p := filepath.Join(dir, id+".nb")
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return types.Model{ID: id, Name: id, Path: p, Inputs: inputs, Outputs: outputs}
}

// newTestManager builds a manager over one model "m" (4 bytes in, 8 bytes out)
// running the host loopback backend.
func newTestManager(t *testing.T, cfg ManagerConfig) *Manager {
	t.Helper()
	dir := t.TempDir()
	if cfg.Registry == nil {
		cfg.Registry = []types.Model{writeModel(t, dir, "m", []byte("nbg-m"), []int{4}, []int{8})}
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = cfg.Registry[0].ID
	}
	m := NewWithConfig(cfg)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

// gatedCompiler holds the first Setup until release delivers its result, so a
// test can act on an instance while it is still loading.
type gatedCompiler struct {
	synap.Compiler
	entered chan struct{}
	release chan error
	once    sync.Once
}

func newGatedCompiler() *gatedCompiler {
	return &gatedCompiler{entered: make(chan struct{}), release: make(chan error, 1)}
}

func (c *gatedCompiler) Setup() error {
	first := false
	c.once.Do(func() { first = true })
	if first {
		close(c.entered)
		if err := <-c.release; err != nil {
			return err
		}
	}
	return c.Compiler.Setup()
}

func (c *gatedCompiler) waitEntered(t *testing.T) {
	t.Helper()
	select {
	case <-c.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("load never reached compiler setup")
	}
}

// countingRuntime counts Close calls on the wrapped runtime.
type countingRuntime struct {
	synap.Runtime
	closes atomic.Int32
}

func (r *countingRuntime) Close() error {
	r.closes.Add(1)
	return r.Runtime.Close()
}

// gatedBackend is HostBackend with c in front of the file compiler and rt
// around the host runtime.
func gatedBackend(c *gatedCompiler, rt *countingRuntime) BackendFactory {
	return func(mdl types.Model) (synap.Options, error) {
		c.Compiler = &synap.FileCompiler{Path: mdl.Path}
		rt.Runtime = synap.NewHostRuntime(nil)
		return synap.Options{Compiler: c, Transcoder: synap.PassthroughTranscoder{}, Runtime: rt}, nil
	}
}
