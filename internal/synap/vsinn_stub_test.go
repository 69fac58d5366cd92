//go:build !vsinn

package synap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVSITranscoderStub(t *testing.T) {
	_, err := NewVSITranscoder().NBGToEBG([]byte{1})
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestCompile_MissingVSITranscoder(t *testing.T) {
	g := newTestGraph(t, &fakeCompiler{nbg: []byte("nbg")}, NewVSITranscoder(), NewHostRuntime(nil), nil, nil)
	err := g.Compile(context.Background())
	assert.ErrorIs(t, err, ErrTranscode)
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.False(t, g.Loaded())
}
