package manager

import (
	"fmt"

	"synapd/internal/synap"
	"synapd/pkg/types"
)

// Runtime and transcoder names accepted by NewBackend.
const (
	RuntimeHost           = "host"
	TranscoderVSINN       = "vsinn"
	TranscoderPassthrough = "passthrough"
)

// BackendFactory builds the collaborators for one model's graph. Remote and
// Logger are filled in by the manager.
type BackendFactory func(mdl types.Model) (synap.Options, error)

// HostBackend compiles from the model's .nb file, passes the NBG through as the
// artifact and runs it on the host runtime with fn (nil means loopback).
func HostBackend(fn synap.PredictFunc) BackendFactory {
	return func(mdl types.Model) (synap.Options, error) {
		return synap.Options{
			Compiler:   &synap.FileCompiler{Path: mdl.Path},
			Transcoder: synap.PassthroughTranscoder{},
			Runtime:    synap.NewHostRuntime(fn),
		}, nil
	}
}

// NewBackend resolves configured runtime and transcoder names. Empty names
// select the host runtime and the vsinn transcoder.
func NewBackend(runtime, transcoder string) (BackendFactory, error) {
	if runtime == "" {
		runtime = RuntimeHost
	}
	if transcoder == "" {
		transcoder = TranscoderVSINN
	}
	if runtime != RuntimeHost {
		return nil, ErrDependencyUnavailable(fmt.Sprintf("runtime %q is not available in this build", runtime))
	}
	var newTranscoder func() synap.Transcoder
	switch transcoder {
	case TranscoderVSINN:
		newTranscoder = synap.NewVSITranscoder
	case TranscoderPassthrough:
		newTranscoder = func() synap.Transcoder { return synap.PassthroughTranscoder{} }
	default:
		return nil, fmt.Errorf("unknown transcoder %q", transcoder)
	}
	return func(mdl types.Model) (synap.Options, error) {
		return synap.Options{
			Compiler:   &synap.FileCompiler{Path: mdl.Path},
			Transcoder: newTranscoder(),
			Runtime:    synap.NewHostRuntime(nil),
		}, nil
	}, nil
}
