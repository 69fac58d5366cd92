package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"synapd/internal/common/fsutil"
	"synapd/pkg/types"
)

// NBGExt is the extension of precompiled network binary graphs.
const NBGExt = ".nb"

// manifest is the optional <stem>.yaml sidecar next to an NBG file.
type manifest struct {
	Name    string `yaml:"name"`
	Inputs  []int  `yaml:"inputs"`
	Outputs []int  `yaml:"outputs"`
}

// LoadDir scans a directory for *.nb files and builds a registry from them.
// ID is the file stem; Path is the absolute file path. Tensor byte sizes and
// the display name come from an optional <stem>.yaml sidecar.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, NBGExt) {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		mdl := types.Model{ID: id, Name: id, Path: filepath.Join(abs, name)}
		mf, err := readManifest(filepath.Join(abs, id+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", id, err)
		}
		if mf != nil {
			if mf.Name != "" {
				mdl.Name = mf.Name
			}
			mdl.Inputs = mf.Inputs
			mdl.Outputs = mf.Outputs
		}
		models = append(models, mdl)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

func readManifest(path string) (*manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var mf manifest
	if err := yaml.Unmarshal(b, &mf); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", filepath.Base(path), err)
	}
	for i, n := range mf.Inputs {
		if n <= 0 {
			return nil, fmt.Errorf("manifest %s: input %d has size %d", filepath.Base(path), i, n)
		}
	}
	for i, n := range mf.Outputs {
		if n <= 0 {
			return nil, fmt.Errorf("manifest %s: output %d has size %d", filepath.Base(path), i, n)
		}
	}
	return &mf, nil
}
