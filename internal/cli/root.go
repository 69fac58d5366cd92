package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"synapd/internal/config"
)

// Options is the resolved CLI state shared by every subcommand.
type Options struct {
	ConfigPath string
	Config     config.Config
	Logger     zerolog.Logger

	out io.Writer
	err io.Writer
}

// Main runs the synapd command line and returns the process exit code.
func Main(args []string) int {
	opts := &Options{out: os.Stdout, err: os.Stderr}
	root := buildRootCmdWith(opts)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(opts.err, "error:", err)
		return 1
	}
	return 0
}

// buildRootCmdWith constructs the Cobra command tree. Flags override values
// from --config, which override built-in defaults.
func buildRootCmdWith(opts *Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "synapd",
		Short:         "Compile, cache and serve accelerator models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.out)
	root.SetErr(opts.err)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", envStr("SYNAPD_CONFIG", ""), "Config file (.yaml, .json or .toml)")
	pf.String("log-level", "", "Log level: debug|info|warn|error")
	pf.String("models-dir", "", "Directory to scan for *.nb model files")
	pf.String("cache-dir", "", "Directory for compiled .ebg artifacts")
	pf.String("remote-cache", "", "Shared artifact store: dir, file://, gs:// or s3:// URL")
	pf.String("runtime", "", "Inference runtime: host")
	pf.String("transcoder", "", "NBG to EBG converter: vsinn|passthrough")
	pf.String("default-model", "", "Default model id when a request omits one")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var cfg config.Config
		if opts.ConfigPath != "" {
			c, err := config.Load(opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = c
		}
		flags := cmd.Flags()
		overrideStr(flags.Lookup("log-level"), &cfg.LogLevel)
		overrideStr(flags.Lookup("models-dir"), &cfg.ModelsDir)
		overrideStr(flags.Lookup("cache-dir"), &cfg.CacheDir)
		overrideStr(flags.Lookup("remote-cache"), &cfg.RemoteCache)
		overrideStr(flags.Lookup("runtime"), &cfg.Runtime)
		overrideStr(flags.Lookup("transcoder"), &cfg.Transcoder)
		overrideStr(flags.Lookup("default-model"), &cfg.DefaultModel)
		opts.Config = cfg.WithDefaults()
		opts.Logger = newLogger(opts.err, opts.Config.LogLevel)
		return nil
	}

	root.AddCommand(
		newServeCmd(opts),
		newCompileCmd(opts),
		newRunCmd(opts),
		newModelsCmd(opts),
	)
	return root
}

// newLogger returns a console logger writing to w at the named level.
func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger()
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitCSV splits a comma-separated list, trimming blanks and empty items.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
