package synap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Source records where a Graph's artifact came from.
type Source string

const (
	SourceNone     Source = ""
	SourceCache    Source = "cache"
	SourceRemote   Source = "remote"
	SourceCompiler Source = "compiler"
)

// Options wires the external collaborators into a Graph.
type Options struct {
	Compiler   Compiler
	Transcoder Transcoder
	Runtime    Runtime
	// Remote is optional.
	Remote RemoteCache
	Logger *zerolog.Logger
}

// Graph compiles one network to an EBG artifact, loads it into a Runtime and
// runs inference against the declared input and output tensors.
type Graph struct {
	compiler   Compiler
	transcoder Transcoder
	runtime    Runtime
	remote     RemoteCache
	log        zerolog.Logger

	inputs  []Tensor
	outputs []Tensor

	cachePath string
	ebg       []byte
	source    Source

	loaded   bool
	closed   bool
	inBinds  []Binding
	outBinds []Binding
}

// New builds a Graph over inputs and outputs, declared in runtime slot order.
func New(opts Options, inputs, outputs []Tensor) (*Graph, error) {
	if opts.Runtime == nil {
		return nil, errors.New("synap: runtime is required")
	}
	g := &Graph{
		compiler:   opts.Compiler,
		transcoder: opts.Transcoder,
		runtime:    opts.Runtime,
		remote:     opts.Remote,
		log:        zerolog.Nop(),
		inputs:     append([]Tensor(nil), inputs...),
		outputs:    append([]Tensor(nil), outputs...),
	}
	if opts.Logger != nil {
		g.log = *opts.Logger
	}
	return g, nil
}

// SetCachePath sets the cache file to base+".ebg". An empty base leaves the
// current path untouched and returns ErrEmptyCachePath.
func (g *Graph) SetCachePath(base string) error {
	p, err := CachePath(base)
	if err != nil {
		return err
	}
	g.cachePath = p
	g.log.Debug().Str("path", p).Msg("set ebg cache path")
	return nil
}

// CachePath returns the configured cache file path, or "".
func (g *Graph) CachePath() string { return g.cachePath }

// Source reports where the current artifact came from.
func (g *Graph) Source() Source { return g.source }

// Loaded reports whether Compile has loaded the artifact into the runtime.
func (g *Graph) Loaded() bool { return g.loaded }

// Artifact returns a copy of the EBG artifact, or nil when none is held.
func (g *Graph) Artifact() []byte {
	if g.ebg == nil {
		return nil
	}
	return append([]byte(nil), g.ebg...)
}

// LoadCached reads the artifact from the cache file. When the file is missing
// and a remote tier is configured, the artifact is fetched from the remote and
// written back to the local path. No artifact is retained on failure.
func (g *Graph) LoadCached(ctx context.Context) error {
	if g.ebg != nil {
		return ErrArtifactPresent
	}
	if g.cachePath == "" {
		g.log.Error().Msg("no ebg cache path set")
		return ErrNoCachePath
	}
	b, err := readArtifact(g.cachePath)
	if err == nil {
		g.ebg, g.source = b, SourceCache
		g.log.Debug().Str("path", g.cachePath).Int("ebg_size", len(b)).Msg("read cached ebg")
		return nil
	}
	if g.remote == nil || !errors.Is(err, ErrCacheUnavailable) {
		g.log.Error().Err(err).Str("path", g.cachePath).Msg("cannot read cached ebg file")
		return err
	}
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	key := cacheKey(g.cachePath)
	rb, rerr := g.remote.Get(ctx, key)
	if rerr != nil {
		g.log.Debug().Err(rerr).Str("key", key).Msg("remote ebg cache miss")
		return err
	}
	if len(rb) == 0 {
		g.log.Error().Str("key", key).Msg("remote ebg artifact is empty")
		return fmt.Errorf("%w: remote %s", ErrCacheEmpty, key)
	}
	if werr := writeArtifact(g.cachePath, rb); werr != nil {
		g.log.Warn().Err(werr).Str("path", g.cachePath).Msg("failed to persist remote ebg locally")
	}
	g.ebg, g.source = rb, SourceRemote
	g.log.Debug().Str("key", key).Int("ebg_size", len(rb)).Msg("fetched ebg from remote cache")
	return nil
}

func (g *Graph) setup() error {
	if g.compiler == nil {
		g.log.Error().Msg("setup graph failed: no compiler")
		return fmt.Errorf("%w: no compiler", ErrGraphNotReady)
	}
	if err := g.compiler.Setup(); err != nil {
		g.log.Error().Err(err).Msg("setup graph failed")
		return fmt.Errorf("%w: %w", ErrGraphNotReady, err)
	}
	return nil
}

// BinarySize runs graph setup and reports the NBG size the caller must
// allocate before CompileToBinary.
func (g *Graph) BinarySize(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := g.setup(); err != nil {
		return 0, err
	}
	n, err := g.compiler.NBGSize()
	if err != nil {
		g.log.Error().Err(err).Msg("error getting nbg size")
		return 0, fmt.Errorf("%w: size query: %w", ErrCompiler, err)
	}
	if n <= 0 {
		g.log.Error().Msg("nbg has size 0")
		return 0, fmt.Errorf("%w: nbg has size 0", ErrCompiler)
	}
	g.log.Debug().Int("nbg_size", n).Msg("compile nbg size")
	return n, nil
}

// CompileToBinary fills nbg with the compiled graph, converts it to EBG and
// keeps the result as the artifact. With a cache path set the artifact is also
// written to the cache file and, if configured, the remote tier.
func (g *Graph) CompileToBinary(ctx context.Context, nbg []byte) error {
	if g.ebg != nil {
		return ErrArtifactPresent
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := g.setup(); err != nil {
		return err
	}
	if len(nbg) == 0 {
		return fmt.Errorf("%w: empty nbg buffer", ErrCompiler)
	}
	if err := g.compiler.GenerateNBG(nbg); err != nil {
		g.log.Error().Err(err).Msg("error compiling graph to nbg")
		return fmt.Errorf("%w: %w", ErrCompiler, err)
	}
	if g.transcoder == nil {
		return fmt.Errorf("%w: no transcoder", ErrTranscode)
	}
	ebg, err := g.transcoder.NBGToEBG(nbg)
	if err != nil {
		g.log.Error().Err(err).Msg("nbg to ebg conversion failed")
		return fmt.Errorf("%w: %w", ErrTranscode, err)
	}
	if len(ebg) == 0 {
		g.log.Error().Msg("nbg to ebg conversion produced no data")
		return fmt.Errorf("%w: empty result", ErrTranscode)
	}
	g.ebg, g.source = ebg, SourceCompiler
	g.log.Debug().Int("ebg_size", len(ebg)).Msg("nbg to ebg conversion done")

	if g.cachePath != "" {
		g.persist(ctx)
	}
	return nil
}

func (g *Graph) persist(ctx context.Context) {
	if err := writeArtifact(g.cachePath, g.ebg); err != nil {
		g.log.Warn().Err(err).Str("path", g.cachePath).Msg("failed to write ebg cache file")
		return
	}
	if g.remote == nil {
		return
	}
	key := cacheKey(g.cachePath)
	if err := g.remote.Put(ctx, key, g.ebg); err != nil {
		g.log.Warn().Err(err).Str("key", key).Msg("failed to upload ebg to remote cache")
	}
}

// Compile ensures an artifact is held, from the cache when one is configured
// and otherwise through the compiler, and loads it into the runtime.
func (g *Graph) Compile(ctx context.Context) error {
	if g.closed {
		return ErrClosed
	}
	if g.ebg == nil {
		if err := g.acquire(ctx); err != nil {
			g.log.Error().Err(err).Msg("compile to binary failed")
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	desc := Descriptor{Inputs: TensorSizes(g.inputs), Outputs: TensorSizes(g.outputs)}
	if err := g.runtime.Load(g.ebg, desc.String()); err != nil {
		g.log.Error().Err(err).Msg("error loading ebg model")
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	in, ok := bind(g.inputs, len(g.runtime.Inputs()))
	if !ok {
		return fmt.Errorf("%w: %d inputs, %d runtime slots", ErrBindingMismatch, len(g.inputs), len(g.runtime.Inputs()))
	}
	out, ok := bind(g.outputs, len(g.runtime.Outputs()))
	if !ok {
		return fmt.Errorf("%w: %d outputs, %d runtime slots", ErrBindingMismatch, len(g.outputs), len(g.runtime.Outputs()))
	}
	g.inBinds, g.outBinds = in, out
	g.loaded = true
	g.log.Debug().Str("source", string(g.source)).Int("ebg_size", len(g.ebg)).Msg("ebg model loaded")
	return nil
}

func (g *Graph) acquire(ctx context.Context) error {
	if g.cachePath != "" {
		err := g.LoadCached(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrCacheUnavailable) && !errors.Is(err, ErrCacheEmpty) {
			return err
		}
		g.log.Debug().Err(err).Msg("ebg cache miss, compiling")
	}
	n, err := g.BinarySize(ctx)
	if err != nil {
		return err
	}
	return g.CompileToBinary(ctx, make([]byte, n))
}

// Run copies the input tensors into the runtime, executes one inference pass
// and copies the runtime outputs back into the output tensors. Output tensors
// are untouched when Predict fails.
func (g *Graph) Run(ctx context.Context) error {
	g.log.Debug().Msg("run graph")
	if !g.loaded {
		return ErrNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	slots := g.runtime.Inputs()
	for _, b := range g.inBinds {
		b.Tensor.CopyTo(slots[b.Slot])
	}
	if err := g.runtime.Predict(); err != nil {
		g.log.Error().Err(err).Msg("error executing ebg model")
		return fmt.Errorf("%w: %w", ErrPredict, err)
	}
	slots = g.runtime.Outputs()
	for _, b := range g.outBinds {
		b.Tensor.CopyFrom(slots[b.Slot])
	}
	return nil
}

// Inputs returns the declared input tensors.
func (g *Graph) Inputs() []Tensor { return append([]Tensor(nil), g.inputs...) }

// Outputs returns the declared output tensors.
func (g *Graph) Outputs() []Tensor { return append([]Tensor(nil), g.outputs...) }

// Close releases the artifact and the runtime. Subsequent calls are no-ops.
func (g *Graph) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	g.loaded = false
	g.ebg, g.source = nil, SourceNone
	g.inBinds, g.outBinds = nil, nil
	return g.runtime.Close()
}
