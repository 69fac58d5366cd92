// Package manager provides lifecycle, admission, and inference coordination for
// accelerator model instances. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - backend.go: BackendFactory and the config-driven default factory.
//   - types.go: internal state types (State, ModelInfo, Instance, Snapshot).
//   - errors.go: error types and helpers (IsTooBusy, IsModelNotFound, ...).
//   - instance_ensure.go: EnsureInstance compiles and loads a model graph.
//   - queue_admission.go: per-instance queueing and run admission.
//   - infer.go: Infer copies request bytes through the loaded graph.
//   - evict.go: LRU eviction to respect MaxInstances.
//   - unload.go: graceful drain and release of an instance.
//   - status_report.go: Status/Snapshot reporting helpers.
//   - metrics.go: Prometheus collectors for loads and runs.
//
// Each instance owns one synap.Graph. A graph is single-threaded, so runs are
// admitted one at a time per instance; different instances run concurrently.
package manager
