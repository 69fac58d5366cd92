package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"synapd/internal/synap"
)

func newModelsCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models found in the models directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			cacheDir, err := opts.cacheDir()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tNBG\tINPUTS\tOUTPUTS\tCACHED")
			for _, m := range reg {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%v\t%s\n", m.ID, m.Name, fileSize(m.Path), m.Inputs, m.Outputs,
					fileSize(filepath.Join(cacheDir, m.ID+synap.CacheSuffix)))
			}
			return tw.Flush()
		},
	}
}

// fileSize returns a human-readable size, or "-" when path is missing.
func fileSize(path string) string {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return "-"
	}
	return humanize.Bytes(uint64(fi.Size()))
}
