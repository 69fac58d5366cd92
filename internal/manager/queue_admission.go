package manager

import (
	"context"
	"time"
)

// beginRun reserves a queue slot and then the single in-flight slot of the
// instance serving modelID. Returns the instance and a release func to be
// deferred.
func (m *Manager) beginRun(ctx context.Context, modelID string) (*Instance, func(), error) {
	noop := func() {}
	m.mu.RLock()
	inst := m.instances[modelID]
	var state State
	if inst != nil {
		state = inst.State
	}
	m.mu.RUnlock()
	if inst == nil {
		return nil, noop, modelNotFoundError{id: modelID}
	}
	// If draining, reject new work to allow graceful unload
	if state == StateDraining {
		return nil, noop, tooBusyError{modelID: modelID}
	}

	// Fast path: respect an already-canceled context
	if err := ctx.Err(); err != nil {
		return nil, noop, err
	}

	timer := time.NewTimer(m.maxWait)
	defer timer.Stop()
	select {
	case inst.queueCh <- struct{}{}:
		// reserved queue slot
	case <-ctx.Done():
		return nil, noop, ctx.Err()
	case <-inst.done:
		return nil, noop, tooBusyError{modelID: modelID}
	case <-timer.C:
		return nil, noop, tooBusyError{modelID: modelID}
	}

	// Wait to acquire the single in-flight slot
	acquired := false
	defer func() {
		if !acquired {
			<-inst.queueCh
		}
	}()
	select {
	case inst.genCh <- struct{}{}:
	case <-ctx.Done():
		return nil, noop, ctx.Err()
	case <-inst.done:
		return nil, noop, tooBusyError{modelID: modelID}
	case <-timer.C:
		return nil, noop, tooBusyError{modelID: modelID}
	}

	// Work queued before a drain still runs; an unloaded graph never does.
	m.mu.Lock()
	select {
	case <-inst.done:
		m.mu.Unlock()
		<-inst.genCh
		return nil, noop, tooBusyError{modelID: modelID}
	default:
	}
	if inst.graph == nil {
		m.mu.Unlock()
		<-inst.genCh
		return nil, noop, tooBusyError{modelID: modelID}
	}
	inst.LastUsed = time.Now()
	m.mu.Unlock()
	acquired = true
	return inst, func() { <-inst.genCh; <-inst.queueCh }, nil
}
