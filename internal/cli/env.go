package cli

import (
	"context"
	"fmt"
	"time"

	"synapd/internal/blobs"
	"synapd/internal/common/fsutil"
	"synapd/internal/manager"
	"synapd/internal/registry"
	"synapd/internal/synap"
	"synapd/pkg/types"
)

func (o *Options) registry() ([]types.Model, error) {
	reg, err := registry.LoadDir(o.Config.ModelsDir)
	if err != nil {
		return nil, fmt.Errorf("load models from %s: %w", o.Config.ModelsDir, err)
	}
	return reg, nil
}

func (o *Options) cacheDir() (string, error) {
	return fsutil.ExpandHome(o.Config.CacheDir)
}

// remote opens the configured remote artifact tier, or returns nil.
func (o *Options) remote(ctx context.Context) (synap.RemoteCache, error) {
	if o.Config.RemoteCache == "" {
		return nil, nil
	}
	bs, err := blobs.Open(ctx, o.Config.RemoteCache, o.Logger)
	if err != nil {
		return nil, fmt.Errorf("open remote cache: %w", err)
	}
	return bs, nil
}

// newManager wires the registry, caches and backend from the resolved config.
func (o *Options) newManager(ctx context.Context, pub manager.EventPublisher) (*manager.Manager, error) {
	reg, err := o.registry()
	if err != nil {
		return nil, err
	}
	cacheDir, err := o.cacheDir()
	if err != nil {
		return nil, err
	}
	remote, err := o.remote(ctx)
	if err != nil {
		return nil, err
	}
	backend, err := manager.NewBackend(o.Config.Runtime, o.Config.Transcoder)
	if err != nil {
		return nil, err
	}
	c := o.Config
	return manager.NewWithConfig(manager.ManagerConfig{
		Registry:      reg,
		DefaultModel:  c.DefaultModel,
		CacheDir:      cacheDir,
		Remote:        remote,
		Backend:       backend,
		MaxQueueDepth: c.MaxQueueDepth,
		MaxWait:       time.Duration(c.MaxWaitMS) * time.Millisecond,
		DrainTimeout:  time.Duration(c.DrainTimeoutMS) * time.Millisecond,
		MaxInstances:  c.MaxInstances,
		Logger:        &o.Logger,
		Publisher:     pub,
	}), nil
}
