package manager

import (
	"os"
	"path/filepath"

	"synapd/internal/common/fsutil"
	"synapd/internal/synap"
)

// SanityReport describes checks of the toolchain and cache setup.
type SanityReport struct {
	VSIBuilt         bool     `json:"vsi_built"`
	CacheDir         string   `json:"cache_dir,omitempty"`
	CacheWritable    bool     `json:"cache_writable"`
	RemoteConfigured bool     `json:"remote_configured"`
	MissingModels    []string `json:"missing_models,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// SanityCheck validates that the cache directory is usable and that every
// registered model file still exists. It does not mutate manager state.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{
		VSIBuilt:         synap.VSIBuilt,
		CacheDir:         m.cacheDir,
		RemoteConfigured: m.remote != nil,
	}
	for _, mdl := range m.ListModels() {
		if !fsutil.PathExists(mdl.Path) {
			r.MissingModels = append(r.MissingModels, mdl.ID)
		}
	}
	if m.cacheDir == "" {
		return r
	}
	if err := os.MkdirAll(m.cacheDir, 0o755); err != nil {
		r.Error = err.Error()
		return r
	}
	marker := filepath.Join(m.cacheDir, ".sanity")
	if err := fsutil.WriteFileAtomic(marker, nil, 0o644); err != nil {
		r.Error = err.Error()
		return r
	}
	_ = os.Remove(marker)
	r.CacheWritable = true
	return r
}
