package manager

// reserveSlot registers inst as a loading instance. At maxInstances it first
// unloads least recently used idle instances; the capacity check and the
// insert share one critical section so concurrent loads cannot overshoot.
// Returns tooBusyError when every instance is busy or still loading.
func (m *Manager) reserveSlot(inst *Instance) error {
	for {
		m.mu.Lock()
		_, present := m.instances[inst.ID]
		if m.maxInstances <= 0 || present || len(m.instances) < m.maxInstances {
			m.instances[inst.ID] = inst
			instancesGauge.Set(float64(len(m.instances)))
			m.mu.Unlock()
			return nil
		}
		lru := m.lruIdleLocked()
		m.mu.Unlock()
		if lru == nil {
			return tooBusyError{modelID: inst.ID}
		}
		m.log.Info().Str("model", lru.ID).Str("for", inst.ID).Msg("evicting idle instance")
		m.events().Publish(Event{Name: EventEvict, ModelID: lru.ID, Fields: map[string]any{"for": inst.ID}})
		if err := m.Unload(lru.ID); err != nil && !IsModelNotFound(err) && !IsTooBusy(err) {
			return err
		}
	}
}

// lruIdleLocked picks the least recently used ready instance with nothing
// in flight or queued. Caller holds m.mu.
func (m *Manager) lruIdleLocked() *Instance {
	var lru *Instance
	for _, inst := range m.instances {
		if inst.State != StateReady || len(inst.genCh) > 0 || len(inst.queueCh) > 0 {
			continue
		}
		if lru == nil || inst.LastUsed.Before(lru.LastUsed) {
			lru = inst
		}
	}
	return lru
}
