// Package synap drives the vendor accelerator toolchain for a single network
// graph: it compiles the graph to NBG, transcodes NBG to EBG, caches the EBG
// artifact on disk, loads it into an inference runtime and moves tensor bytes
// in and out of the runtime's buffers.
//
// The compiler, transcoder and runtime are opaque collaborators:
//
//   - compiler.go: Compiler interface, FileCompiler (prebuilt .nb files).
//   - transcoder.go: Transcoder interface, PassthroughTranscoder.
//   - runtime.go: Runtime interface, HostRuntime (pure Go, for development).
//   - vsinn_cgo.go: cgo bindings for vsi_nn_GenerateNBG and nbg_to_ebg.
//     Enabled with `-tags=vsinn`; vsinn_stub.go is compiled otherwise.
//
// A Graph is not safe for concurrent use. Callers serialise Compile and Run.
package synap
