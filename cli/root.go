/*
Package cli implements the backlog command-line tool.

COMMANDS:
  backlog report     Project a scenario and write CSV, chart, PDF and XLSX
  backlog deck       Build the briefing deck (PPTX) and its notes handout
  backlog serve      Run the HTTP API
  backlog runs       List, show or delete saved runs
  backlog scenarios  List the built-in scenarios

GLOBAL FLAGS:
  --config     Config file (default: backlog.yaml in . or ./config)
  --log-level  Overrides log.level from the config

Report text goes to stdout; logs go to log.output (stderr by default).

SEE ALSO:
  - config/config.go: Configuration sources and defaults
  - cmd/backlog/main.go: Entry point
*/
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/backlog-report/backlog"
	"github.com/warp/backlog-report/backlog/store"
	"github.com/warp/backlog-report/config"
	"github.com/warp/backlog-report/logger"
	"github.com/warp/backlog-report/report"
	"github.com/warp/backlog-report/store/sqlite"
)

// app carries what every subcommand needs once the root has loaded it.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "backlog",
		Short: "Monthly backlog projection reports",
		Long: `backlog projects how a work backlog drains month by month given a daily ` +
			`processing rate and a daily inflow, and renders the result as CSV, chart, ` +
			`PDF and XLSX. It also builds the briefing deck and serves everything over HTTP.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default backlog.yaml in . or ./config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newReportCmd(a),
		newDeckCmd(a),
		newServeCmd(a),
		newRunsCmd(a),
		newScenariosCmd(a),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		describeError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func (a *app) load(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	a.cfg = cfg
	a.log = log
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}

// generator applies the report section of the config.
func (a *app) generator() *report.Generator {
	gen := report.NewGenerator(a.log.Named("report"))
	gen.Names = a.cfg.Report.FileNames()
	gen.Chart = a.cfg.Report.ChartOptions()
	gen.FontCandidates = a.cfg.Report.FontCandidates
	return gen
}

// openStore returns the configured run store and its closer.
func (a *app) openStore() (backlog.RunStore, func() error, error) {
	switch a.cfg.Store.Driver {
	case "sqlite":
		s, err := sqlite.New(a.cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		a.log.Debug("using sqlite store", zap.String("path", a.cfg.Store.Path))
		return s, s.Close, nil
	default:
		return store.NewMemory(), func() error { return nil }, nil
	}
}
