package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"synapd/internal/manager"
	"synapd/internal/synap"
	"synapd/pkg/types"
)

func newCompileCmd(opts *Options) *cobra.Command {
	var out string
	var force bool
	cmd := &cobra.Command{
		Use:     "compile <model.nb>",
		Short:   "Compile a network to an EBG artifact in the cache",
		Example: "  synapd compile /opt/models/mobilenet_v2.nb --out /tmp/mobilenet_v2",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compile(cmd, opts, args[0], out, force)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Artifact base path; .ebg is appended (default <cache-dir>/<stem>)")
	cmd.Flags().BoolVar(&force, "force", false, "Recompile even when a cached artifact exists")
	return cmd
}

func compile(cmd *cobra.Command, opts *Options, path, out string, force bool) error {
	ctx := cmd.Context()
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if out == "" {
		dir, err := opts.cacheDir()
		if err != nil {
			return err
		}
		out = filepath.Join(dir, stem)
	}
	backend, err := manager.NewBackend(opts.Config.Runtime, opts.Config.Transcoder)
	if err != nil {
		return err
	}
	gopts, err := backend(types.Model{ID: stem, Path: path})
	if err != nil {
		return err
	}
	if gopts.Remote, err = opts.remote(ctx); err != nil {
		return err
	}
	gopts.Logger = &opts.Logger
	g, err := synap.New(gopts, nil, nil)
	if err != nil {
		return err
	}
	defer g.Close()
	if err := g.SetCachePath(out); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if force {
		_ = os.Remove(g.CachePath())
	} else {
		err := g.LoadCached(ctx)
		if err == nil {
			fmt.Fprintf(w, "%s: %s artifact %s (%s)\n", stem, g.Source(), g.CachePath(), humanize.Bytes(uint64(len(g.Artifact()))))
			return nil
		}
		if !errors.Is(err, synap.ErrCacheUnavailable) && !errors.Is(err, synap.ErrCacheEmpty) {
			return err
		}
	}

	n, err := g.BinarySize(ctx)
	if err != nil {
		return err
	}
	if err := g.CompileToBinary(ctx, make([]byte, n)); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: compiled nbg %s -> %s (%s)\n", stem, humanize.Bytes(uint64(n)), g.CachePath(), humanize.Bytes(uint64(len(g.Artifact()))))
	return nil
}
