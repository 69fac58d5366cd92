package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir    string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	CacheDir     string `json:"cache_dir" yaml:"cache_dir" toml:"cache_dir"`
	RemoteCache  string `json:"remote_cache" yaml:"remote_cache" toml:"remote_cache"`
	DefaultModel string `json:"default_model" yaml:"default_model" toml:"default_model"`
	// Runtime selects the inference runtime: "host".
	Runtime string `json:"runtime" yaml:"runtime" toml:"runtime"`
	// Transcoder selects the NBG to EBG converter: "vsinn" or "passthrough".
	Transcoder     string   `json:"transcoder" yaml:"transcoder" toml:"transcoder"`
	MaxQueueDepth  int      `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxWaitMS      int      `json:"max_wait_ms" yaml:"max_wait_ms" toml:"max_wait_ms"`
	DrainTimeoutMS int      `json:"drain_timeout_ms" yaml:"drain_timeout_ms" toml:"drain_timeout_ms"`
	InferTimeoutMS int      `json:"infer_timeout_ms" yaml:"infer_timeout_ms" toml:"infer_timeout_ms"`
	MaxInstances   int      `json:"max_instances" yaml:"max_instances" toml:"max_instances"`
	LogLevel       string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	CORSOrigins    []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	Preload        []string `json:"preload" yaml:"preload" toml:"preload"`
}

// Defaults used by WithDefaults.
const (
	DefaultAddr       = ":8080"
	DefaultModelsDir  = "~/models/npu"
	DefaultCacheDir   = "~/.cache/synapd"
	DefaultRuntime    = "host"
	DefaultTranscoder = "vsinn"
	DefaultLogLevel   = "info"
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// WithDefaults returns a copy of cfg with unset string fields filled in.
// Numeric tunables are left to the manager's own defaults.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir
	}
	if c.Runtime == "" {
		c.Runtime = DefaultRuntime
	}
	if c.Transcoder == "" {
		c.Transcoder = DefaultTranscoder
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	return c
}
