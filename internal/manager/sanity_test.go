package manager

import (
	"os"
	"path/filepath"
	"testing"

	"synapd/internal/synap"
	"synapd/pkg/types"
)

func TestSanityCheck_CacheAndMissingModels(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	dir := t.TempDir()
	m := NewWithConfig(ManagerConfig{
		CacheDir: cacheDir,
		Registry: []types.Model{
			writeModel(t, dir, "ok", []byte("x"), nil, nil),
			{ID: "lost", Path: filepath.Join(dir, "lost.nb")},
		},
	})
	r := m.SanityCheck()
	if !r.CacheWritable || r.Error != "" {
		t.Fatalf("cache should be writable: %+v", r)
	}
	if r.VSIBuilt != synap.VSIBuilt || r.RemoteConfigured {
		t.Fatalf("unexpected toolchain report: %+v", r)
	}
	if len(r.MissingModels) != 1 || r.MissingModels[0] != "lost" {
		t.Fatalf("missing models = %v", r.MissingModels)
	}
	entries, _ := os.ReadDir(cacheDir)
	if len(entries) != 0 {
		t.Fatalf("marker file left behind: %v", entries)
	}
}

func TestSanityCheck_NoCacheDir(t *testing.T) {
	r := NewWithConfig(ManagerConfig{}).SanityCheck()
	if r.CacheWritable || r.Error != "" {
		t.Fatalf("unexpected report: %+v", r)
	}
}
