package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"synapd/internal/httpapi"
	"synapd/internal/manager"
	"synapd/internal/registry"
)

// createTempModelsDir writes one .nb file per name, each holding "nbg:<name>",
// with a sidecar manifest declaring a 2-byte input and a 4-byte output.
func createTempModelsDir(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n+".nb"), []byte("nbg:"+n), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", n, err)
		}
		manifest := []byte("name: " + n + "\ninputs: [2]\noutputs: [4]\n")
		if err := os.WriteFile(filepath.Join(dir, n+".yaml"), manifest, 0o644); err != nil {
			t.Fatalf("write manifest %s: %v", n, err)
		}
	}
	return dir, names
}

// newServerForDirWithConfig scans modelsDir and serves a manager built from cfg.
// A nil Backend selects the host loopback backend.
func newServerForDirWithConfig(t *testing.T, modelsDir string, cfg manager.ManagerConfig) (*httptest.Server, *manager.Manager) {
	t.Helper()
	reg, err := registry.LoadDir(modelsDir)
	if err != nil {
		t.Fatalf("scan models: %v", err)
	}
	cfg.Registry = reg
	mgr := manager.NewWithConfig(cfg)
	t.Cleanup(func() { _ = mgr.Close() })
	srv := httptest.NewServer(httpapi.NewMux(mgr, httpapi.Options{}))
	t.Cleanup(srv.Close)
	return srv, mgr
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	return httpDo(t, http.MethodGet, url, nil)
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	return httpDo(t, http.MethodPost, url, payload)
}

func httpDo(t *testing.T, method, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
