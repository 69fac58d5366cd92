package synap

import "errors"

var (
	// ErrEmptyCachePath is returned by SetCachePath for an empty base path.
	ErrEmptyCachePath = errors.New("empty cache path")
	// ErrNoCachePath is returned when the cache is read without a configured path.
	ErrNoCachePath = errors.New("cache path not set")
	// ErrCacheUnavailable means the cached artifact could not be opened or read.
	ErrCacheUnavailable = errors.New("cached ebg file unavailable")
	// ErrCacheEmpty means the cached artifact exists but holds no bytes.
	ErrCacheEmpty = errors.New("cached ebg file is empty")
	// ErrGraphNotReady means the compiler setup step did not succeed.
	ErrGraphNotReady = errors.New("graph setup failed")
	// ErrCompiler wraps failures of the NBG size query or fill.
	ErrCompiler = errors.New("nbg compile failed")
	// ErrTranscode wraps NBG to EBG conversion failures.
	ErrTranscode = errors.New("nbg to ebg conversion failed")
	// ErrLoad wraps runtime load failures.
	ErrLoad = errors.New("ebg model load failed")
	// ErrPredict wraps runtime predict failures.
	ErrPredict = errors.New("ebg model execution failed")
	// ErrArtifactPresent is returned when a graph already holds an artifact.
	ErrArtifactPresent = errors.New("ebg artifact already present")
	// ErrNotLoaded is returned by Run before a successful Compile.
	ErrNotLoaded = errors.New("graph not loaded")
	// ErrBindingMismatch means the runtime slot count differs from the declared tensors.
	ErrBindingMismatch = errors.New("tensor and runtime slot count mismatch")
	// ErrClosed is returned by Compile after Close.
	ErrClosed = errors.New("graph closed")
	// ErrDependencyUnavailable means a vendor library is not built into this binary.
	ErrDependencyUnavailable = errors.New("vendor toolchain not available")
)
