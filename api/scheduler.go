/*
scheduler.go - Periodic report regeneration

PURPOSE:
  Regenerates the report artifacts of a configured scenario on a fixed
  interval and saves each regeneration as a run, so the output directory
  always holds a fresh monthly report while the server is up.

DESIGN:
  - Runs a background goroutine with configurable interval
  - Generates once immediately on Start, then on every tick
  - A failed generation is logged and retried on the next tick

USAGE:
  scheduler := NewReportScheduler(store, generator, scenario, "./out", logger)
  scheduler.Interval = 24 * time.Hour
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - report/generator.go: Generate
  - cli/serve.go: Starts the scheduler when server.report_interval > 0
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/backlog-report/backlog"
	"github.com/warp/backlog-report/factory"
	"github.com/warp/backlog-report/report"
)

// ReportScheduler regenerates a scenario's report periodically.
type ReportScheduler struct {
	Store     backlog.RunStore
	Generator *report.Generator
	Scenario  *factory.Scenario
	Dir       string
	Interval  time.Duration
	Logger    *zap.Logger

	ticker *time.Ticker
	stop   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewReportScheduler creates a new scheduler with a daily interval.
func NewReportScheduler(store backlog.RunStore, gen *report.Generator, sc *factory.Scenario, dir string, log *zap.Logger) *ReportScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportScheduler{
		Store:     store,
		Generator: gen,
		Scenario:  sc,
		Dir:       dir,
		Interval:  24 * time.Hour,
		Logger:    log.Named("scheduler"),
	}
}

// Start begins the scheduler. Calling Start twice is a no-op.
func (rs *ReportScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	rs.cancel = cancel
	rs.stop = make(chan struct{})
	rs.ticker = time.NewTicker(rs.Interval)
	rs.wg.Add(1)

	go rs.run(ctx)

	rs.Logger.Info("started", zap.Duration("interval", rs.Interval), zap.String("scenario", rs.Scenario.ID))
}

// Stop stops the scheduler and waits for an in-flight generation to end.
func (rs *ReportScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker == nil {
		return
	}
	rs.ticker.Stop()
	rs.cancel()
	close(rs.stop)
	rs.wg.Wait()
	rs.ticker = nil
	rs.Logger.Info("stopped")
}

func (rs *ReportScheduler) run(ctx context.Context) {
	defer rs.wg.Done()

	// Run immediately on start
	rs.generate(ctx)

	for {
		select {
		case <-rs.ticker.C:
			rs.generate(ctx)
		case <-rs.stop:
			return
		}
	}
}

// generate projects the scenario, writes the artifacts and saves the run.
func (rs *ReportScheduler) generate(ctx context.Context) {
	proj, whatIf, err := rs.Scenario.Project()
	if err != nil {
		rs.Logger.Error("projection failed", zap.Error(err))
		return
	}
	if proj.IsEmpty() {
		rs.Logger.Warn("scenario has no backlog, nothing to generate")
		return
	}

	artifacts, err := rs.Generator.Generate(ctx, proj, whatIf, rs.Dir)
	if err != nil {
		rs.Logger.Error("report generation failed", zap.Error(err))
		return
	}

	run := backlog.NewRun(uuid.NewString(), rs.Scenario.Name, proj, time.Now())
	run.ExtraPerDay = rs.Scenario.ExtraPerDay
	if err := rs.Store.SaveRun(ctx, run); err != nil {
		rs.Logger.Error("failed to save run", zap.Error(err))
		return
	}

	summary, _ := proj.Summary()
	rs.Logger.Info("report regenerated",
		zap.String("run_id", run.ID),
		zap.String("zero_month", summary.ZeroMonth.String()),
		zap.Strings("files", artifacts.Paths()),
	)
}
