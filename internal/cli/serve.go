package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"synapd/internal/httpapi"
	"synapd/internal/manager"
)

func newServeCmd(opts *Options) *cobra.Command {
	var (
		addr                                  string
		maxQueue, maxWaitMS, drainMS, inferMS int
		maxInstances                          int
		corsOrigins, preload                  string
	)
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP inference server",
		Example: "  synapd serve --addr :8080 --models-dir /opt/models --preload mobilenet_v2",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			c := &opts.Config
			if f.Changed("addr") || addr != "" {
				c.Addr = addr
			}
			overrideInt(f.Lookup("max-queue-depth"), &c.MaxQueueDepth, maxQueue)
			overrideInt(f.Lookup("max-wait-ms"), &c.MaxWaitMS, maxWaitMS)
			overrideInt(f.Lookup("drain-timeout-ms"), &c.DrainTimeoutMS, drainMS)
			overrideInt(f.Lookup("infer-timeout-ms"), &c.InferTimeoutMS, inferMS)
			overrideInt(f.Lookup("max-instances"), &c.MaxInstances, maxInstances)
			if f.Changed("cors-origins") {
				c.CORSOrigins = splitCSV(corsOrigins)
			}
			if f.Changed("preload") {
				c.Preload = splitCSV(preload)
			}
			return serve(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", envStr("SYNAPD_ADDR", ""), "HTTP listen address, e.g. :8080")
	f.IntVar(&maxQueue, "max-queue-depth", 0, "Queued requests per model before 429")
	f.IntVar(&maxWaitMS, "max-wait-ms", 0, "Max time a request waits for a run slot")
	f.IntVar(&drainMS, "drain-timeout-ms", 0, "Max time an unload waits for queued work")
	f.IntVar(&inferMS, "infer-timeout-ms", 0, "Per-request /infer timeout (0 disables)")
	f.IntVar(&maxInstances, "max-instances", 0, "Loaded models kept at once (0=unlimited)")
	f.StringVar(&corsOrigins, "cors-origins", "", "Comma-separated CORS origins")
	f.StringVar(&preload, "preload", "", "Comma-separated model ids to load at startup")
	return cmd
}

func serve(parent context.Context, opts *Options) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := opts.Logger
	mgr, err := opts.newManager(ctx, manager.LogPublisher{Logger: log})
	if err != nil {
		return err
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			log.Warn().Err(err).Msg("unload on shutdown")
		}
	}()

	c := opts.Config
	mux := httpapi.NewMux(mgr, httpapi.Options{
		InferTimeout: time.Duration(c.InferTimeoutMS) * time.Millisecond,
		CORSOrigins:  c.CORSOrigins,
		BaseContext:  ctx,
		Logger:       log,
		LogLevel:     c.LogLevel,
	})
	srv := &http.Server{Addr: c.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", c.Addr).Str("models_dir", c.ModelsDir).Int("models", len(mgr.ListModels())).Msg("synapd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	for _, id := range c.Preload {
		go func(id string) {
			if err := mgr.EnsureInstance(ctx, id); err != nil {
				log.Error().Err(err).Str("model", id).Msg("preload failed")
			}
		}(id)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	// Graceful shutdown (Ctrl+C / SIGTERM)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	log.Info().Msg("synapd stopped")
	return nil
}
