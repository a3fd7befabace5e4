/*
serve.go - HTTP server command

STARTUP SEQUENCE:
  1. Open the configured run store (memory or sqlite)
  2. Create API handler with dependencies
  3. Configure HTTP router
  4. Start the report scheduler when server.report_interval > 0
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (server.shutdown_timeout)
  4. Close the store

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Periodic report regeneration
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/backlog-report/api"
	"github.com/warp/backlog-report/factory"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}

// serve blocks until ctx is cancelled or the listener fails.
func (a *app) serve(ctx context.Context) error {
	runs, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	gen := a.generator()
	handler := api.NewHandler(runs, gen, a.log.Named("api"))
	router := api.NewRouter(handler, a.cfg.Server.CORSAllowOrigins)

	srv := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	if interval := a.cfg.Server.ReportInterval; interval > 0 {
		sc, err := factory.NewScenarioFactory().Preset(a.cfg.Report.Scenario)
		if err != nil {
			return fmt.Errorf("report scheduler: %w", err)
		}
		scheduler := api.NewReportScheduler(runs, gen, sc, a.cfg.Report.OutputDir, a.log)
		scheduler.Interval = interval
		scheduler.Start()
		defer scheduler.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting", zap.String("addr", srv.Addr), zap.String("store", a.cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.log.Info("server stopped")
	return nil
}
