// Command atlas loads a survey corpus, applies view parameters, and writes
// the resulting summaries, charts, or price plot.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banshee-data/buyer.atlas/internal/config"
	"github.com/banshee-data/buyer.atlas/internal/monitoring"
	"github.com/banshee-data/buyer.atlas/internal/version"
)

// rootOptions holds the global flags.
type rootOptions struct {
	configPath string
	codesPath  string
	logLevel   string
	logFormat  string
}

// env carries what PersistentPreRunE initialised down to subcommands.
type env struct {
	cfg *config.ExplorerConfig
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	ro := &rootOptions{}
	e := &env{}

	cmd := &cobra.Command{
		Use:     "atlas",
		Short:   "Explore vehicle buyer survey responses",
		Long:    "atlas projects survey respondents onto an embedding, filters them by model, cluster,\nstate and focus, and summarises the remaining scope as tables and charts.",
		Version: version.String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(ro)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&ro.configPath, "config", "c", "", "config file (.yaml, .yml or .json)")
	pf.StringVar(&ro.codesPath, "codes", "", "code table file; overrides code_table in the config")
	pf.StringVar(&ro.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&ro.logFormat, "log-format", "", "log format (console, json)")

	cmd.AddCommand(
		newSummaryCommand(e),
		newRenderCommand(e),
		newPlotCommand(e),
	)
	return cmd
}

// setup loads the config and installs the logger. Flags win over the config
// file and environment.
func (e *env) setup(ro *rootOptions) error {
	cfg, err := config.Load(ro.configPath)
	if err != nil {
		return err
	}
	if ro.logLevel != "" {
		cfg.Log.Level = ro.logLevel
	}
	if ro.logFormat != "" {
		cfg.Log.Format = ro.logFormat
	}
	if ro.codesPath != "" {
		cfg.CodeTable = &ro.codesPath
	}

	l, err := monitoring.NewZapLogger(cfg.Log)
	if err != nil {
		return err
	}
	monitoring.UseZap(l)
	e.cfg = cfg
	e.log = l
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "atlas: %v\n", err)
		os.Exit(1)
	}
}
