package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/backlog-report/backlog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func referenceRun(t *testing.T, id string, at time.Time) backlog.Run {
	t.Helper()
	proj, err := backlog.Project(backlog.Params{
		StartYear:        2025,
		StartMonth:       time.August,
		BacklogStart:     decimal.NewFromInt(2600),
		ProcessPerDay:    decimal.NewFromInt(10),
		NewPerDay:        decimal.RequireFromString("1.2"),
		WorkdaysPerMonth: 20,
	})
	require.NoError(t, err)
	return backlog.NewRun(id, "reference", proj, at)
}

func TestSaveAndGetRun(t *testing.T) {
	// GIVEN: A saved reference run
	// WHEN: Reading it back
	// THEN: Params and every record decimal round-trip exactly

	ctx := context.Background()
	s := newTestStore(t)
	at := time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC)
	run := referenceRun(t, "run-1", at)

	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, "reference", got.Name)
	assert.True(t, at.Equal(got.CreatedAt))
	assert.Equal(t, run.Params.Start(), got.Params.Start())
	assert.True(t, got.Params.NewPerDay.Equal(decimal.RequireFromString("1.2")))
	require.Len(t, got.Records, len(run.Records))
	for i := range run.Records {
		want, have := run.Records[i], got.Records[i]
		assert.Equal(t, want.Period, have.Period)
		assert.True(t, want.OpeningBacklog.Equal(have.OpeningBacklog), want.Period.String())
		assert.True(t, want.ClosingBacklog.Equal(have.ClosingBacklog), want.Period.String())
		assert.Equal(t, want.Workdays, have.Workdays)
		assert.Equal(t, want.Terminal, have.Terminal)
	}

	last := got.Records[len(got.Records)-1]
	assert.True(t, last.Terminal)
	assert.Equal(t, 16, last.Workdays)
}

func TestSaveRun_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	run := referenceRun(t, "run-1", time.Now())
	require.NoError(t, s.SaveRun(ctx, run))

	run.Name = "renamed"
	run.Records = run.Records[:3]
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Len(t, got.Records, 3)
}

func TestListRuns_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveRun(ctx, referenceRun(t, "old", base)))
	require.NoError(t, s.SaveRun(ctx, referenceRun(t, "new", base.Add(time.Hour))))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "old", runs[1].ID)
	assert.Nil(t, runs[0].Records)
}

func TestGetAndDelete_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, backlog.ErrRunNotFound)
	assert.ErrorIs(t, s.DeleteRun(ctx, "missing"), backlog.ErrRunNotFound)
}

func TestDeleteRun_CascadesRecords(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SaveRun(ctx, referenceRun(t, "run-1", time.Now())))

	require.NoError(t, s.DeleteRun(ctx, "run-1"))

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM run_records").Scan(&n))
	assert.Zero(t, n)
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveRun(ctx, referenceRun(t, "run-1", time.Now())))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, got.Records, 15)
}

func TestSaveRun_ExtraPerDay(t *testing.T) {
	// GIVEN: One run with a what-if gain and one without
	// WHEN: Reading both back
	// THEN: The gain survives and the comparison can be recomputed

	ctx := context.Background()
	s := newTestStore(t)

	with := referenceRun(t, "with", time.Now())
	extra := decimal.NewFromInt(2)
	with.ExtraPerDay = &extra
	require.NoError(t, s.SaveRun(ctx, with))
	require.NoError(t, s.SaveRun(ctx, referenceRun(t, "without", time.Now())))

	got, err := s.GetRun(ctx, "with")
	require.NoError(t, err)
	require.NotNil(t, got.ExtraPerDay)
	assert.True(t, got.ExtraPerDay.Equal(extra))
	whatIf, err := got.WhatIf()
	require.NoError(t, err)
	require.NotNil(t, whatIf)
	assert.Equal(t, 2, whatIf.PeriodsSaved)

	got, err = s.GetRun(ctx, "without")
	require.NoError(t, err)
	assert.Nil(t, got.ExtraPerDay)
	whatIf, err = got.WhatIf()
	require.NoError(t, err)
	assert.Nil(t, whatIf)
}

func TestGetRun_CorruptCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SaveRun(ctx, referenceRun(t, "run-1", time.Now())))

	_, err := s.db.Exec(`UPDATE runs SET created_at = 'yesterday' WHERE id = 'run-1'`)
	require.NoError(t, err)

	_, err = s.GetRun(ctx, "run-1")
	assert.ErrorContains(t, err, "created_at")
	_, err = s.ListRuns(ctx)
	assert.Error(t, err)
}

func TestMigrate_AddsExtraPerDayColumn(t *testing.T) {
	// GIVEN: A database whose runs table predates extra_per_day
	// WHEN: Opening it
	// THEN: The column is added and runs save again

	path := filepath.Join(t.TempDir(), "old.db")
	old, err := New(path)
	require.NoError(t, err)
	_, err = old.db.Exec(`ALTER TABLE runs DROP COLUMN extra_per_day`)
	require.NoError(t, err)
	require.NoError(t, old.Close())

	s, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	run := referenceRun(t, "run-1", time.Now())
	extra := decimal.NewFromInt(3)
	run.ExtraPerDay = &extra
	require.NoError(t, s.SaveRun(context.Background(), run))
}
