package synap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCompiler(t *testing.T) {
	p := filepath.Join(t.TempDir(), "net.nb")
	want := []byte("prebuilt nbg")
	require.NoError(t, os.WriteFile(p, want, 0o644))

	c := &FileCompiler{Path: p}
	require.NoError(t, c.Setup())
	n, err := c.NBGSize()
	require.NoError(t, err)
	assert.Equal(t, len(want), n)

	buf := make([]byte, n)
	require.NoError(t, c.GenerateNBG(buf))
	assert.Equal(t, want, buf)
}

func TestFileCompiler_Missing(t *testing.T) {
	c := &FileCompiler{Path: filepath.Join(t.TempDir(), "missing.nb")}
	assert.Error(t, c.Setup())
	_, err := c.NBGSize()
	assert.Error(t, err)
}

func TestFileCompiler_Directory(t *testing.T) {
	c := &FileCompiler{Path: t.TempDir()}
	assert.Error(t, c.Setup())
}

func TestPassthroughTranscoder(t *testing.T) {
	nbg := []byte{1, 2, 3}
	out, err := PassthroughTranscoder{}.NBGToEBG(nbg)
	require.NoError(t, err)
	assert.Equal(t, nbg, out)
	out[0] = 9
	assert.Equal(t, byte(1), nbg[0], "result must not alias the input")

	_, err = PassthroughTranscoder{}.NBGToEBG(nil)
	assert.Error(t, err)
}

func TestHostRuntime_LoadSizesSlots(t *testing.T) {
	r := NewHostRuntime(nil)
	d := Descriptor{Inputs: []int{4, 2}, Outputs: []int{3}}
	require.NoError(t, r.Load([]byte{1}, d.String()))
	require.Len(t, r.Inputs(), 2)
	assert.Len(t, r.Inputs()[0], 4)
	assert.Len(t, r.Inputs()[1], 2)
	require.Len(t, r.Outputs(), 1)
	assert.Len(t, r.Outputs()[0], 3)

	require.NoError(t, r.Close())
	assert.Error(t, r.Load([]byte{1}, d.String()))
	assert.Error(t, r.Predict())
}

func TestHostRuntime_Errors(t *testing.T) {
	r := NewHostRuntime(nil)
	assert.Error(t, r.Predict(), "predict before load")
	assert.Error(t, r.Load(nil, Descriptor{}.String()))
	assert.Error(t, r.Load([]byte{1}, "not json"))
}

func TestLoopback_NoInputsZeroesOutputs(t *testing.T) {
	out := [][]byte{{1, 2, 3}}
	require.NoError(t, Loopback(nil, out))
	assert.Equal(t, []byte{0, 0, 0}, out[0])
}
