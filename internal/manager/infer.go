package manager

import (
	"context"
	"fmt"
	"time"

	"synapd/pkg/types"
)

// Infer runs one inference pass. The model is loaded on demand; the request
// must carry exactly one byte slice per declared input, each of the declared
// size.
func (m *Manager) Infer(ctx context.Context, req types.InferRequest) (types.InferResponse, error) {
	id, err := m.resolveID(req.Model)
	if err != nil {
		return types.InferResponse{}, err
	}
	mdl, ok := m.getModelByID(id)
	if !ok {
		return types.InferResponse{}, ErrModelNotFound(id)
	}
	if err := validateInputs(mdl, req.Inputs); err != nil {
		return types.InferResponse{}, err
	}
	if err := m.EnsureInstance(ctx, id); err != nil {
		return types.InferResponse{}, err
	}

	inst, release, err := m.beginRun(ctx, id)
	if err != nil {
		if IsTooBusy(err) {
			runsTotal.WithLabelValues(id, "busy").Inc()
		}
		return types.InferResponse{}, err
	}
	defer release()

	for i, t := range inst.inputs {
		t.CopyFrom(req.Inputs[i])
	}
	start := time.Now()
	if err := inst.graph.Run(ctx); err != nil {
		runsTotal.WithLabelValues(id, "error").Inc()
		m.mu.Lock()
		inst.Err = err.Error()
		m.mu.Unlock()
		m.log.Error().Err(err).Str("model", id).Msg("infer: run failed")
		return types.InferResponse{}, err
	}
	dur := time.Since(start)
	runDuration.WithLabelValues(id).Observe(dur.Seconds())
	runsTotal.WithLabelValues(id, "ok").Inc()

	outs := make([][]byte, len(inst.outputs))
	for i, t := range inst.outputs {
		outs[i] = t.Bytes()
	}
	m.mu.Lock()
	inst.Runs++
	inst.Err = ""
	m.mu.Unlock()
	return types.InferResponse{Model: id, Outputs: outs, DurationMS: dur.Milliseconds()}, nil
}

func validateInputs(mdl types.Model, inputs [][]byte) error {
	if len(inputs) != len(mdl.Inputs) {
		return invalidInputError{msg: fmt.Sprintf("model %s takes %d inputs, got %d", mdl.ID, len(mdl.Inputs), len(inputs))}
	}
	for i, b := range inputs {
		if len(b) != mdl.Inputs[i] {
			return invalidInputError{msg: fmt.Sprintf("input %d of model %s is %d bytes, got %d", i, mdl.ID, mdl.Inputs[i], len(b))}
		}
	}
	return nil
}
