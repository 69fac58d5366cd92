package registry

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoadDir_FiltersNBG(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"a.nb",
		"b.NB", // case-insensitive
		"not-model.txt",
		"model.bin",
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte(""), 0o644); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
	}
	models, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	if models[0].ID != "a" || models[1].ID != "b" {
		t.Fatalf("unexpected ids: %q %q", models[0].ID, models[1].ID)
	}
	if models[0].Path != filepath.Join(dir, "a.nb") {
		t.Fatalf("unexpected path: %s", models[0].Path)
	}
}

func TestLoadDir_ReadsManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mobilenet.nb"), []byte("nbg"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	mf := "name: MobileNet\ninputs: [1024]\noutputs: [256, 4]\n"
	if err := os.WriteFile(filepath.Join(dir, "mobilenet.yaml"), []byte(mf), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	models, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("unexpected: %+v", models)
	}
	m := models[0]
	if m.Name != "MobileNet" || len(m.Inputs) != 1 || m.Inputs[0] != 1024 || len(m.Outputs) != 2 || m.Outputs[1] != 4 {
		t.Fatalf("manifest not applied: %+v", m)
	}
}

func TestLoadDir_RejectsBadManifest(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "m.nb"), []byte("nbg"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "m.yaml"), []byte("inputs: [0]\n"), 0o644)
	if _, err := LoadDir(dir); err == nil {
		t.Fatalf("expected error for zero-sized input")
	}
	_ = os.WriteFile(filepath.Join(dir, "m.yaml"), []byte("inputs: [\n"), 0o644)
	if _, err := LoadDir(dir); err == nil {
		t.Fatalf("expected yaml parse error")
	}
}

func TestLoadDir_MissingDir(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestLoadDir_ExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir on this platform: %v", err)
	}
	hTmp, err := os.MkdirTemp(home, "synapd-registry-*")
	if err != nil {
		t.Skipf("cannot create temp under home: %v", err)
	}
	defer os.RemoveAll(hTmp)
	if err := os.WriteFile(filepath.Join(hTmp, "x.nb"), []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var tildePath string
	if runtime.GOOS == "windows" {
		tildePath = filepath.Join("~", filepath.Base(hTmp))
	} else {
		tildePath = "~/" + filepath.Base(hTmp)
	}
	models, err := LoadDir(tildePath)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(models) != 1 || models[0].ID != "x" {
		t.Fatalf("unexpected models: %+v", models)
	}
}
