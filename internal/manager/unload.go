package manager

import (
	"time"
)

// Unload initiates a graceful drain of a model instance and removes it.
// An instance that is still loading is busy and is left alone.
//   - Sets instance state to draining to reject new enqueues.
//   - Waits up to drainTimeout for queued requests to finish.
//   - Waits for the in-flight run, then closes the graph and removes the entry.
func (m *Manager) Unload(modelID string) error {
	if modelID == "" {
		return ErrModelNotFound("(unspecified)")
	}
	m.mu.Lock()
	inst := m.instances[modelID]
	if inst == nil || inst.State == StateDraining {
		m.mu.Unlock()
		return ErrModelNotFound(modelID)
	}
	if inst.State == StateLoading {
		m.mu.Unlock()
		return tooBusyError{modelID: modelID}
	}
	inst.State = StateDraining
	g := inst.graph
	m.mu.Unlock()
	m.events().Publish(Event{Name: EventUnloadStart, ModelID: modelID, Fields: map[string]any{}})

	deadline := time.Now().Add(m.drainTimeout)
	for {
		qlen := len(inst.queueCh)
		inflight := len(inst.genCh)
		if inflight == 0 && qlen == 0 {
			break
		}
		if time.Now().After(deadline) {
			m.log.Warn().Str("model", modelID).Int("inflight", inflight).Int("queue", qlen).Msg("unload: drain timeout")
			m.events().Publish(Event{Name: EventUnloadTimeout, ModelID: modelID, Fields: map[string]any{"inflight": inflight, "queue": qlen}})
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Wake queued waiters, then take the run slot so no Run overlaps Close.
	inst.closeDone()
	inst.genCh <- struct{}{}

	var err error
	if g != nil {
		err = g.Close()
	}

	m.mu.Lock()
	if m.instances[modelID] == inst {
		delete(m.instances, modelID)
	}
	if m.cur != nil && m.cur.ID == modelID {
		m.cur = nil
	}
	instancesGauge.Set(float64(len(m.instances)))
	m.mu.Unlock()

	if err != nil {
		m.log.Warn().Err(err).Str("model", modelID).Msg("unload: runtime close failed")
	}
	m.events().Publish(Event{Name: EventUnloadDone, ModelID: modelID, Fields: map[string]any{}})
	return err
}
