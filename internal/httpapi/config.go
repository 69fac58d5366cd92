package httpapi

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// defaultMaxBodyBytes bounds /infer bodies; tensors travel base64 encoded.
const defaultMaxBodyBytes int64 = 64 << 20

// Options configures the HTTP layer. The zero value is usable.
type Options struct {
	// MaxBodyBytes limits JSON request bodies (default 64 MiB).
	MaxBodyBytes int64
	// InferTimeout bounds a single /infer request; zero disables it.
	InferTimeout time.Duration
	// CORSOrigins enables CORS for the listed origins when non-empty.
	CORSOrigins []string
	// BaseContext is canceled on shutdown to abort in-flight work.
	BaseContext context.Context
	Logger      zerolog.Logger
	// LogLevel is the default per-request log level: off, error, info, debug.
	LogLevel string
}

func (o Options) withDefaults() Options {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBodyBytes
	}
	if o.InferTimeout < 0 {
		o.InferTimeout = 0
	}
	if o.BaseContext == nil {
		o.BaseContext = context.Background()
	}
	return o
}
