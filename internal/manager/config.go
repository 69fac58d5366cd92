package manager

import (
	"time"

	"github.com/rs/zerolog"

	"synapd/internal/synap"
	"synapd/pkg/types"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
	defaultDrainTimeout  = 5 * time.Second
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Registry     []types.Model
	DefaultModel string
	// CacheDir holds <id>.ebg artifacts. Empty disables the artifact cache.
	CacheDir string
	// Remote is an optional shared artifact tier behind CacheDir.
	Remote synap.RemoteCache
	// Backend builds the compiler/transcoder/runtime for a model.
	// Defaults to FileCompiler + PassthroughTranscoder + HostRuntime.
	Backend       BackendFactory
	MaxQueueDepth int
	MaxWait       time.Duration
	DrainTimeout  time.Duration
	// MaxInstances bounds loaded instances; 0 means unlimited.
	MaxInstances int
	Logger       *zerolog.Logger
	Publisher    EventPublisher
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		state:        StateLoading,
		registry:     cfg.Registry,
		defaultModel: cfg.DefaultModel,
		cacheDir:     cfg.CacheDir,
		remote:       cfg.Remote,
		backend:      cfg.Backend,
		maxInstances: cfg.MaxInstances,
		instances:    make(map[string]*Instance),
		publisher:    cfg.Publisher,
		log:          zerolog.Nop(),
	}
	// Apply defaults if unset
	if cfg.MaxQueueDepth <= 0 {
		m.maxQueueDepth = defaultMaxQueueDepth
	} else {
		m.maxQueueDepth = cfg.MaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		m.maxWait = defaultMaxWait
	} else {
		m.maxWait = cfg.MaxWait
	}
	if cfg.DrainTimeout <= 0 {
		m.drainTimeout = defaultDrainTimeout
	} else {
		m.drainTimeout = cfg.DrainTimeout
	}
	if m.backend == nil {
		m.backend = HostBackend(nil)
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if cfg.Logger != nil {
		m.log = *cfg.Logger
	}
	m.startTime = time.Now()
	return m
}
