package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/backlog-report/backlog"
	"github.com/warp/backlog-report/factory"
	"github.com/warp/backlog-report/report"
)

type reportOptions struct {
	scenario string
	file     string
	out      string
	extra    string
	save     bool
}

func newReportCmd(a *app) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Project a scenario and write the report files",
		Long: `Projects a built-in scenario (--scenario) or a scenario JSON file (--file) and ` +
			`writes the CSV ledger, the trend chart, the PDF report and the XLSX workbook ` +
			`into the output directory. The narrative is printed to stdout.`,
		Example: `  backlog report
  backlog report --scenario high-inflow --extra 3
  backlog report --file my-scenario.json --out ./out --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "built-in scenario id (default report.scenario)")
	cmd.Flags().StringVar(&opts.file, "file", "", "scenario JSON file")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory (default report.output_dir)")
	cmd.Flags().StringVar(&opts.extra, "extra", "", "extra items processed per day for the what-if")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the run to the configured store")
	cmd.MarkFlagsMutuallyExclusive("scenario", "file")
	return cmd
}

func (a *app) runReport(cmd *cobra.Command, opts *reportOptions) error {
	sc, err := a.loadScenario(opts.scenario, opts.file)
	if err != nil {
		return err
	}
	if opts.extra != "" {
		extra, err := decimal.NewFromString(opts.extra)
		if err != nil {
			return fmt.Errorf("invalid --extra %q: %w", opts.extra, err)
		}
		sc.ExtraPerDay = &extra
	}

	proj, whatIf, err := sc.Project()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	summary, ok := proj.Summary()
	if !ok {
		fmt.Fprintln(out, "The backlog is already empty; there is nothing to report.")
		return nil
	}

	dir := opts.out
	if dir == "" {
		dir = a.cfg.Report.OutputDir
	}
	artifacts, err := a.generator().Generate(cmd.Context(), proj, whatIf, dir)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, report.Narrative(summary, whatIf))
	fmt.Fprintf(out, "Zero month:     %s\n", summary.ZeroMonth)
	fmt.Fprintf(out, "Final workdays: %d\n", summary.FinalWorkdays)
	fmt.Fprintln(out, "Files:")
	for _, p := range artifacts.Paths() {
		fmt.Fprintf(out, "  %s\n", p)
	}

	if opts.save {
		id, err := a.saveRun(cmd, sc, proj)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved run:      %s\n", id)
	}
	return nil
}

// loadScenario reads --file when given, otherwise the preset id (falling
// back to report.scenario).
func (a *app) loadScenario(id, file string) (*factory.Scenario, error) {
	f := factory.NewScenarioFactory()
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read scenario file: %w", err)
		}
		return f.ParseScenario(string(data))
	}
	if id == "" {
		id = a.cfg.Report.Scenario
	}
	return f.Preset(id)
}

func (a *app) saveRun(cmd *cobra.Command, sc *factory.Scenario, proj *backlog.Projection) (string, error) {
	if a.cfg.Store.Driver == "memory" {
		a.log.Warn("store.driver is memory, the saved run ends with this process")
	}
	runs, closeStore, err := a.openStore()
	if err != nil {
		return "", err
	}
	defer closeStore()

	run := backlog.NewRun(uuid.NewString(), sc.Name, proj, time.Now())
	run.ExtraPerDay = sc.ExtraPerDay
	if err := runs.SaveRun(cmd.Context(), run); err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	a.log.Info("run saved", zap.String("run_id", run.ID))
	return run.ID, nil
}

// describeError adds a hint for the errors users hit most.
func describeError(w io.Writer, err error) {
	switch {
	case errors.Is(err, backlog.ErrInvalidConfiguration):
		fmt.Fprintln(w, "hint: process_per_day must exceed new_per_day, and every rate must be positive")
	case errors.Is(err, backlog.ErrHorizonExceeded):
		fmt.Fprintln(w, "hint: raise max_periods (0 means the default cap of 1200 periods)")
	case errors.Is(err, factory.ErrUnknownScenario):
		fmt.Fprintln(w, "hint: run `backlog scenarios` for the built-in ids")
	}
}
