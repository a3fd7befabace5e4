package api

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/backlog-report/backlog/store"
	"github.com/warp/backlog-report/factory"
	"github.com/warp/backlog-report/report"
)

func TestReportScheduler_GeneratesOnStart(t *testing.T) {
	// GIVEN: A scheduler for the reference scenario with a long interval
	// WHEN: Starting then stopping it
	// THEN: The immediate run wrote the artifacts and saved one run

	sc, err := factory.NewScenarioFactory().Preset("reference")
	require.NoError(t, err)

	runs := store.NewMemory()
	gen := report.NewGenerator(zap.NewNop())
	gen.FontCandidates = nil
	dir := t.TempDir()

	rs := NewReportScheduler(runs, gen, sc, dir, zap.NewNop())
	rs.Interval = time.Hour

	rs.Start()
	require.Eventually(t, func() bool {
		list, _ := runs.ListRuns(context.Background())
		return len(list) == 1
	}, 10*time.Second, 20*time.Millisecond)
	rs.Stop()
	rs.Stop() // second Stop is a no-op

	_, err = os.Stat(filepath.Join(dir, "backlog_report_202508.pdf"))
	assert.NoError(t, err)
}
