package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so no stray backlog.yaml
// or .env is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Zero(t, cfg.Server.ReportInterval)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "reference", cfg.Report.Scenario)
	assert.Equal(t, "backlog_trend_{start}.png", cfg.Report.ChartName)
	assert.Equal(t, 1200, cfg.Report.ChartOptions().Width)
	assert.NotEmpty(t, cfg.Report.FontCandidates)
}

func TestLoad_FileAndEnv(t *testing.T) {
	// GIVEN: A config file and an environment override
	// WHEN: Loading
	// THEN: The file overrides defaults and the environment overrides the file

	dir := inTempDir(t)
	yaml := `
log:
  level: debug
server:
  addr: ":9090"
  shutdown_timeout: 3s
store:
  driver: sqlite
  path: ./runs.db
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backlog.yaml"), []byte(yaml), 0o644))
	t.Setenv("BACKLOG_SERVER_ADDR", ":7070")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "./runs.db", cfg.Store.Path)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BACKLOG_REPORT_SCENARIO=high-inflow\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("BACKLOG_REPORT_SCENARIO") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "high-inflow", cfg.Report.Scenario)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	inTempDir(t)
	_, err := Load("nope.yaml")
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	inTempDir(t)
	t.Setenv("BACKLOG_LOG_LEVEL", "loud")

	_, err := Load("")
	assert.ErrorContains(t, err, "invalid configuration")
}
