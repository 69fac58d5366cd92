package manager

import (
	"context"
	"fmt"
)

// Switch kicks off an async ensure of modelID and returns an operation ID.
// The load runs in the background with a detached context; callers poll
// Status() or watch for a switch_done event carrying the op ID.
func (m *Manager) Switch(_ context.Context, modelID string) (string, error) {
	id, err := m.resolveID(modelID)
	if err != nil {
		return "", err
	}
	if _, ok := m.getModelByID(id); !ok {
		return "", ErrModelNotFound(id)
	}
	op := fmt.Sprintf("op-%d", m.opSeq.Add(1))
	go func() {
		fields := map[string]any{"op": op}
		if err := m.EnsureInstance(context.Background(), id); err != nil {
			fields["error"] = err.Error()
		}
		m.events().Publish(Event{Name: EventSwitchDone, ModelID: id, Fields: fields})
	}()
	return op, nil
}
