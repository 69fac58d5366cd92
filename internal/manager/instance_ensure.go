package manager

import (
	"context"
	"errors"
	"time"

	"synapd/internal/synap"
	"synapd/pkg/types"
)

// EnsureInstance makes sure modelID has a ready instance: it builds the graph,
// points it at the artifact cache and compiles it. Concurrent callers for the
// same model share one load. An empty modelID selects the default model.
func (m *Manager) EnsureInstance(ctx context.Context, modelID string) error {
	id, err := m.resolveID(modelID)
	if err != nil {
		return err
	}
	if m.touchReady(id) {
		return nil
	}
	mdl, ok := m.getModelByID(id)
	if !ok {
		m.log.Warn().Str("model", id).Msg("ensure: model not found")
		m.events().Publish(Event{Name: EventModelNotFound, ModelID: id, Fields: map[string]any{}})
		return ErrModelNotFound(id)
	}
	_, err, shared := m.loads.Do(id, func() (any, error) {
		return nil, m.load(ctx, mdl)
	})
	if shared {
		m.log.Debug().Str("model", id).Msg("ensure: joined in-progress load")
	}
	return err
}

// touchReady bumps LastUsed and reports true when id is already ready.
func (m *Manager) touchReady(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instances[id]
	if !ok || inst.State != StateReady {
		return false
	}
	inst.LastUsed = time.Now()
	return true
}

func (m *Manager) load(ctx context.Context, mdl types.Model) error {
	if m.touchReady(mdl.ID) {
		return nil
	}
	startTs := time.Now()
	inst := newInstance(mdl.ID, m.maxQueueDepth)
	if err := m.reserveSlot(inst); err != nil {
		return err
	}
	m.log.Info().Str("model", mdl.ID).Str("path", mdl.Path).Msg("ensure: loading model")
	m.events().Publish(Event{Name: EventEnsureStart, ModelID: mdl.ID, Fields: map[string]any{}})

	m.mu.Lock()
	m.state = StateLoading
	m.err = ""
	m.mu.Unlock()

	g, inputs, outputs, err := m.buildGraph(mdl)
	if err == nil {
		err = g.Compile(ctx)
		if err != nil {
			_ = g.Close()
		}
	}
	if err != nil {
		return m.failLoad(inst, err)
	}

	m.mu.Lock()
	if m.instances[mdl.ID] != inst {
		// Removed by Close while compiling.
		m.mu.Unlock()
		_ = g.Close()
		inst.closeDone()
		m.log.Warn().Str("model", mdl.ID).Msg("ensure: instance removed during load")
		return ErrModelNotFound(mdl.ID)
	}
	inst.graph = g
	inst.inputs, inst.outputs = inputs, outputs
	inst.source = g.Source()
	inst.artifactBytes = len(g.Artifact())
	inst.cachePath = g.CachePath()
	inst.State = StateReady
	inst.LastUsed = time.Now()
	m.cur = &ModelInfo{ID: mdl.ID, Name: mdl.Name, Path: mdl.Path}
	m.state = StateReady
	m.err = ""
	m.loadsTotal++
	m.mu.Unlock()

	loadsCounter.WithLabelValues(string(inst.source)).Inc()
	dur := time.Since(startTs)
	m.log.Info().Str("model", mdl.ID).Str("source", string(inst.source)).Int("artifact_bytes", inst.artifactBytes).Dur("dur", dur).Msg("ensure: model ready")
	m.events().Publish(Event{Name: EventEnsureReady, ModelID: mdl.ID, Fields: map[string]any{
		"dur_ms": int(dur / time.Millisecond),
		"source": string(inst.source),
	}})
	return nil
}

func (m *Manager) buildGraph(mdl types.Model) (*synap.Graph, []*synap.HostTensor, []*synap.HostTensor, error) {
	opts, err := m.backend(mdl)
	if err != nil {
		return nil, nil, nil, err
	}
	opts.Remote = m.remote
	logger := m.log.With().Str("model", mdl.ID).Logger()
	opts.Logger = &logger

	inputs := hostTensors(mdl.Inputs)
	outputs := hostTensors(mdl.Outputs)
	g, err := synap.New(opts, asTensors(inputs), asTensors(outputs))
	if err != nil {
		return nil, nil, nil, err
	}
	if base := m.cacheBase(mdl.ID); base != "" {
		if err := g.SetCachePath(base); err != nil {
			_ = g.Close()
			return nil, nil, nil, err
		}
	}
	return g, inputs, outputs, nil
}

// failLoad drops the instance, records the error and maps toolchain gaps to
// dependencyUnavailableError.
func (m *Manager) failLoad(inst *Instance, err error) error {
	if errors.Is(err, synap.ErrDependencyUnavailable) {
		err = dependencyUnavailableError{msg: err.Error(), cause: err}
	}
	m.mu.Lock()
	if m.instances[inst.ID] == inst {
		delete(m.instances, inst.ID)
	}
	inst.closeDone()
	instancesGauge.Set(float64(len(m.instances)))
	m.state = StateError
	m.err = err.Error()
	m.mu.Unlock()

	loadFailuresTotal.Inc()
	m.log.Error().Err(err).Str("model", inst.ID).Msg("ensure: load failed")
	m.events().Publish(Event{Name: EventEnsureError, ModelID: inst.ID, Fields: map[string]any{"error": err.Error()}})
	return err
}

func hostTensors(sizes []int) []*synap.HostTensor {
	out := make([]*synap.HostTensor, len(sizes))
	for i, n := range sizes {
		out[i] = synap.NewHostTensor(n)
	}
	return out
}

func asTensors(ts []*synap.HostTensor) []synap.Tensor {
	out := make([]synap.Tensor, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out
}
