package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"synapd/internal/manager"
	"synapd/pkg/types"
)

func newRunCmd(opts *Options) *cobra.Command {
	var inputs []string
	var outDir string
	cmd := &cobra.Command{
		Use:     "run [model-id]",
		Short:   "Load a model and run one inference pass from files",
		Example: "  synapd run mobilenet_v2 --input image.rgb --output-dir ./out",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runOnce(cmd, opts, id, inputs, outDir)
		},
	}
	cmd.Flags().StringArrayVar(&inputs, "input", nil, "Raw input tensor file, repeated in slot order")
	cmd.Flags().StringVar(&outDir, "output-dir", ".", "Directory for <model>.out<N>.bin files")
	return cmd
}

func runOnce(cmd *cobra.Command, opts *Options, id string, inputs []string, outDir string) error {
	ctx := cmd.Context()
	pub := manager.NewMemoryPublisher()
	mgr, err := opts.newManager(ctx, pub)
	if err != nil {
		return err
	}
	defer mgr.Close()

	req := types.InferRequest{Model: id}
	for _, p := range inputs {
		b, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		req.Inputs = append(req.Inputs, b)
	}
	start := time.Now()
	resp, err := mgr.Infer(ctx, req)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if e, ok := pub.Last(manager.EventEnsureReady); ok {
		fmt.Fprintf(w, "%s: loaded from %v in %v ms\n", resp.Model, e.Fields["source"], e.Fields["dur_ms"])
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for i, out := range resp.Outputs {
		p := filepath.Join(outDir, fmt.Sprintf("%s.out%d.bin", resp.Model, i))
		if err := os.WriteFile(p, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(w, "%s: output %d -> %s (%s)\n", resp.Model, i, p, humanize.Bytes(uint64(len(out))))
	}
	fmt.Fprintf(w, "%s: run %d ms, total %s\n", resp.Model, resp.DurationMS, time.Since(start).Round(time.Millisecond))
	return nil
}
