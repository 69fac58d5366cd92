package manager

import (
	"sync"
	"time"

	"synapd/internal/synap"
)

// State represents lifecycle state of the manager/instances.
type State string

const (
	StateReady    State = "ready"
	StateLoading  State = "loading"
	StateDraining State = "draining"
	StateError    State = "error"
)

// ModelInfo is a minimal view of the current model.
type ModelInfo struct {
	ID   string
	Name string
	Path string
}

// Snapshot is a read-only projection of the manager state.
type Snapshot struct {
	State        State
	CurrentModel *ModelInfo
	Err          string
}

// Instance represents a loaded model graph (one per model id).
type Instance struct {
	ID       string
	State    State
	LastUsed time.Time
	Err      string
	Runs     uint64
	// Queueing primitives
	genCh   chan struct{} // size 1: single in-flight run
	queueCh chan struct{} // buffered: queue slots

	// done is closed once the instance is unloaded to wake queued waiters.
	done     chan struct{}
	doneOnce sync.Once

	graph         *synap.Graph
	inputs        []*synap.HostTensor
	outputs       []*synap.HostTensor
	source        synap.Source
	artifactBytes int
	cachePath     string
}

func newInstance(id string, queueDepth int) *Instance {
	return &Instance{
		ID:       id,
		State:    StateLoading,
		LastUsed: time.Now(),
		genCh:    make(chan struct{}, 1),
		queueCh:  make(chan struct{}, queueDepth),
		done:     make(chan struct{}),
	}
}

// closeDone closes done at most once; unload and a failed load may both reach it.
func (i *Instance) closeDone() { i.doneOnce.Do(func() { close(i.done) }) }
