package types

// InferRequest represents an inference request payload.
type InferRequest struct {
	// Optional model identifier. If empty, the server default is used.
	Model string `json:"model,omitempty"`
	// Raw input tensor bytes, base64 encoded, one entry per input slot.
	Inputs [][]byte `json:"inputs"`
}

// InferResponse carries the output tensors of one inference pass.
type InferResponse struct {
	// Model that served the request.
	Model string `json:"model"`
	// Raw output tensor bytes, base64 encoded, one entry per output slot.
	Outputs [][]byte `json:"outputs"`
	// Time spent in the runtime, in milliseconds.
	DurationMS int64 `json:"duration_ms"`
}

// LoadResponse is returned by POST /models/{id}/load.
type LoadResponse struct {
	Model string `json:"model"`
	// Where the EBG artifact came from: cache, remote or compiler.
	Source string `json:"source"`
	// Size of the loaded EBG artifact in bytes.
	ArtifactBytes int `json:"artifact_bytes"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of available models.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	Error string `json:"error"`
	// HTTP status code.
	Code int `json:"code"`
}

// InstanceStatus summarizes a loaded instance for /status.
type InstanceStatus struct {
	// ID of the model this instance serves.
	ModelID string `json:"model_id"`
	// Current lifecycle state of the instance (loading, ready, draining, error).
	State string `json:"state"`
	// Last time this instance served a request (unix seconds).
	LastUsed int64 `json:"last_used_unix"`
	// Where the EBG artifact came from: cache, remote or compiler.
	Source string `json:"source,omitempty"`
	// Size of the EBG artifact in bytes.
	ArtifactBytes int `json:"artifact_bytes"`
	// Cache file holding the artifact.
	CachePath string `json:"cache_path,omitempty"`
	// Current queue length for incoming requests.
	QueueLen int `json:"queue_len"`
	// Number of in-flight runs (0 or 1).
	Inflight int `json:"inflight"`
	// Maximum queued requests allowed before backpressure triggers.
	MaxQueueDepth int `json:"max_queue_depth"`
	// Number of completed inference passes.
	Runs uint64 `json:"runs"`
	// Last error observed on this instance, if any.
	Error string `json:"error,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Loaded/managed instances.
	Instances []InstanceStatus `json:"instances"`
	// Overall manager state (e.g., loading, ready, error).
	State string `json:"state"`
	// Last error observed by the manager (if any).
	Error string `json:"error,omitempty"`
	// Uptime of the server in seconds.
	UptimeSeconds int64 `json:"uptime_seconds"`
	// Server time in unix seconds.
	ServerTimeUnix int64 `json:"server_time_unix"`
	// Total number of successful model loads.
	LoadsTotal uint64 `json:"loads_total"`
	// Number of instances currently compiling or loading.
	WarmupsInProgress int `json:"warmups_in_progress"`
	// Number of instances currently draining (unload in progress).
	DrainingCount int `json:"draining_count"`
}
