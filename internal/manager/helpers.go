package manager

import (
	"path/filepath"

	"synapd/pkg/types"
)

// Helper: find model in registry by id.
func (m *Manager) getModelByID(id string) (types.Model, bool) {
	for _, mdl := range m.registry {
		if mdl.ID == id {
			return mdl, true
		}
	}
	return types.Model{}, false
}

// Helper: resolve an empty id to the default model.
func (m *Manager) resolveID(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	if m.defaultModel == "" {
		return "", modelNotFoundError{id: "(unspecified)"}
	}
	return m.defaultModel, nil
}

// Helper: cache base path for a model; "" when caching is disabled.
func (m *Manager) cacheBase(id string) string {
	if m.cacheDir == "" {
		return ""
	}
	return filepath.Join(m.cacheDir, id)
}
