package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, splitCSV(c.in), "input %q", c.in)
	}
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	opts := &Options{out: &out, err: &errOut}
	root := buildRootCmdWith(opts)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeNB(t *testing.T, dir, id, data, manifest string) string {
	t.Helper()
	p := filepath.Join(dir, id+".nb")
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	if manifest != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".yaml"), []byte(manifest), 0o644))
	}
	return p
}

func TestCompile_WritesAndReusesArtifact(t *testing.T) {
	models, cache := t.TempDir(), t.TempDir()
	nb := writeNB(t, models, "net", "network-binary", "")

	out, err := execute(t, "compile", nb, "--cache-dir", cache, "--transcoder", "passthrough")
	require.NoError(t, err)
	assert.Contains(t, out, "compiled nbg 14 B")
	b, err := os.ReadFile(filepath.Join(cache, "net.ebg"))
	require.NoError(t, err)
	assert.Equal(t, "network-binary", string(b))

	out, err = execute(t, "compile", nb, "--cache-dir", cache, "--transcoder", "passthrough")
	require.NoError(t, err)
	assert.Contains(t, out, "cache artifact")

	out, err = execute(t, "compile", nb, "--cache-dir", cache, "--transcoder", "passthrough", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "compiled")
}

func TestCompile_RemoteTier(t *testing.T) {
	models, cache, remote := t.TempDir(), t.TempDir(), t.TempDir()
	nb := writeNB(t, models, "net", "nbg", "")
	_, err := execute(t, "compile", nb, "--cache-dir", cache, "--remote-cache", "file://"+remote, "--transcoder", "passthrough")
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(remote, "net.ebg"))
	require.NoError(t, err)
	assert.Equal(t, "nbg", string(b))
}

func TestRun_WritesOutputs(t *testing.T) {
	models, cache, outDir := t.TempDir(), t.TempDir(), t.TempDir()
	writeNB(t, models, "echo", "nbg", "inputs: [3]\noutputs: [6]\n")
	in := filepath.Join(t.TempDir(), "in.bin")
	require.NoError(t, os.WriteFile(in, []byte("xyz"), 0o644))

	out, err := execute(t, "run", "echo", "--models-dir", models, "--cache-dir", cache,
		"--transcoder", "passthrough", "--input", in, "--output-dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "loaded from compiler")
	b, err := os.ReadFile(filepath.Join(outDir, "echo.out0.bin"))
	require.NoError(t, err)
	assert.Equal(t, "xyzxyz", string(b))
}

func TestRun_UnknownModel(t *testing.T) {
	_, err := execute(t, "run", "nope", "--models-dir", t.TempDir(), "--cache-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestModels_ListsRegistry(t *testing.T) {
	models, cache := t.TempDir(), t.TempDir()
	writeNB(t, models, "alpha", "12345", "name: Alpha\ninputs: [4]\noutputs: [2]\n")
	require.NoError(t, os.WriteFile(filepath.Join(cache, "alpha.ebg"), []byte("ebg"), 0o644))

	out, err := execute(t, "models", "--models-dir", models, "--cache-dir", cache)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "CACHED")
	for _, s := range []string{"alpha", "Alpha", "5 B", "[4]", "[2]", "3 B"} {
		assert.Contains(t, lines[1], s)
	}
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "synapd.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("models_dir: /from/file\nlog_level: debug\ntranscoder: passthrough\n"), 0o644))

	opts := &Options{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	root := buildRootCmdWith(opts)
	root.SetArgs([]string{"models", "--config", cfg, "--models-dir", dir})
	require.NoError(t, root.Execute())
	assert.Equal(t, dir, opts.Config.ModelsDir)
	assert.Equal(t, "debug", opts.Config.LogLevel)
	assert.Equal(t, "passthrough", opts.Config.Transcoder)
	assert.Equal(t, ":8080", opts.Config.Addr)
}

func TestBadConfigFails(t *testing.T) {
	_, err := execute(t, "models", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
