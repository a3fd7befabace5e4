package backlog_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/backlog-report/backlog"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// referenceParams is the 2025-08 scenario the report was first built for.
func referenceParams() backlog.Params {
	return backlog.Params{
		StartYear:        2025,
		StartMonth:       time.August,
		BacklogStart:     dec("2600"),
		ProcessPerDay:    dec("10"),
		NewPerDay:        dec("1.2"),
		WorkdaysPerMonth: 20,
	}
}

func mustProject(t *testing.T, p backlog.Params) *backlog.Projection {
	t.Helper()
	proj, err := backlog.Project(p)
	require.NoError(t, err)
	return proj
}

// =============================================================================
// REFERENCE SCENARIO
// =============================================================================

func TestProject_ReferenceScenario_Rates(t *testing.T) {
	proj := mustProject(t, referenceParams())

	assert.True(t, proj.Rates.MonthlyProcess.Equal(dec("200")))
	assert.True(t, proj.Rates.MonthlyNew.Equal(dec("24")))
	assert.True(t, proj.Rates.MonthlyNetReduction.Equal(dec("176")))
	assert.True(t, proj.Rates.DailyNetReduction.Equal(dec("8.8")))
}

func TestProject_ReferenceScenario_Ledger(t *testing.T) {
	// GIVEN: 2600 items, 10/day processed, 1.2/day new, 20 workdays
	// WHEN: Projecting from 2025-08
	// THEN: 14 full periods at -176, then a 16-workday terminal period in 2026-10

	proj := mustProject(t, referenceParams())
	require.Equal(t, 15, proj.Len())

	first := proj.Records[0]
	assert.Equal(t, "2025-08", first.Period.String())
	assert.True(t, first.OpeningBacklog.Equal(dec("2600")))
	assert.True(t, first.ClosingBacklog.Equal(dec("2424")))
	assert.Equal(t, 20, first.Workdays)
	assert.False(t, first.Terminal)

	second := proj.Records[1]
	assert.Equal(t, "2025-09", second.Period.String())
	assert.True(t, second.OpeningBacklog.Equal(dec("2424")))
	assert.True(t, second.ClosingBacklog.Equal(dec("2248")))

	last := proj.Records[14]
	assert.Equal(t, "2026-10", last.Period.String())
	assert.True(t, last.Terminal)
	assert.True(t, last.OpeningBacklog.Equal(dec("136")), "opening %s", last.OpeningBacklog)
	assert.Equal(t, 16, last.Workdays)
	assert.True(t, last.ProcessedItems.Equal(dec("160")))
	assert.True(t, last.NewItems.Equal(dec("19.2")))
	assert.True(t, last.NetReduction.Equal(dec("140.8")))
	assert.True(t, last.ClosingBacklog.IsZero())
}

func TestProject_ReferenceScenario_Summary(t *testing.T) {
	proj := mustProject(t, referenceParams())

	summary, ok := proj.Summary()
	require.True(t, ok)
	assert.Equal(t, "2026-10", summary.ZeroMonth.String())
	assert.Equal(t, 16, summary.FinalWorkdays)
	assert.Equal(t, 15, summary.Periods)
	assert.Equal(t, "2025-08", summary.Start.String())
}

// =============================================================================
// PROPERTIES
// =============================================================================

func propertyCases() map[string]backlog.Params {
	cases := map[string]backlog.Params{"reference": referenceParams()}

	fractional := referenceParams()
	fractional.BacklogStart = dec("1234.5")
	fractional.ProcessPerDay = dec("7.3")
	fractional.NewPerDay = dec("2.15")
	fractional.WorkdaysPerMonth = 21
	cases["fractional rates"] = fractional

	december := referenceParams()
	december.StartMonth = time.December
	december.BacklogStart = dec("5000")
	cases["december start"] = december

	tiny := referenceParams()
	tiny.BacklogStart = dec("0.5")
	cases["sub-item backlog"] = tiny

	slow := referenceParams()
	slow.ProcessPerDay = dec("1.21")
	slow.BacklogStart = dec("3")
	cases["near-zero net"] = slow

	return cases
}

func TestProject_Properties(t *testing.T) {
	for name, p := range propertyCases() {
		t.Run(name, func(t *testing.T) {
			proj := mustProject(t, p)
			require.NotEmpty(t, proj.Records)

			// Termination: last closing is exactly zero and only the last is terminal
			last := proj.Records[len(proj.Records)-1]
			assert.True(t, last.ClosingBacklog.IsZero(), "last closing %s", last.ClosingBacklog)
			assert.True(t, last.Terminal)

			for i, r := range proj.Records {
				// Chain continuity
				if i == 0 {
					assert.True(t, r.OpeningBacklog.Equal(p.BacklogStart))
					assert.Equal(t, p.Start(), r.Period)
				} else {
					prev := proj.Records[i-1]
					assert.True(t, r.OpeningBacklog.Equal(prev.ClosingBacklog), "period %s", r.Period)
					// Period sequencing
					assert.Equal(t, prev.Period.Next(), r.Period)
					assert.Equal(t, 1, prev.Period.MonthsUntil(r.Period))
					// Monotonic decrease while positive
					assert.True(t, r.ClosingBacklog.LessThan(prev.ClosingBacklog))
				}
				if i < len(proj.Records)-1 {
					assert.False(t, r.Terminal)
					assert.True(t, r.ClosingBacklog.IsPositive())
					assert.Equal(t, p.WorkdaysPerMonth, r.Workdays)
				}
				assert.True(t, r.NetReduction.Equal(r.ProcessedItems.Sub(r.NewItems)))
			}
		})
	}
}

func TestProject_TerminalPrecision(t *testing.T) {
	for name, p := range propertyCases() {
		t.Run(name, func(t *testing.T) {
			proj := mustProject(t, p)
			last, ok := proj.Terminal()
			require.True(t, ok)

			// finalWorkdays = ceil(opening / (process - new))
			daily := p.ProcessPerDay.Sub(p.NewPerDay)
			want := last.OpeningBacklog.Div(daily).Ceil().IntPart()
			assert.Equal(t, int(want), last.Workdays)

			days := decimal.NewFromInt(int64(last.Workdays))
			assert.True(t, last.ProcessedItems.Equal(days.Mul(p.ProcessPerDay)))
			assert.True(t, last.NewItems.Equal(days.Mul(p.NewPerDay)))
			assert.LessOrEqual(t, last.Workdays, p.WorkdaysPerMonth)
		})
	}
}

func TestProject_ExactlyDivisibleBacklog(t *testing.T) {
	// GIVEN: A backlog that is an exact multiple of the monthly net reduction
	// WHEN: Projecting
	// THEN: The last period is terminal with a full month of workdays

	p := referenceParams()
	p.BacklogStart = dec("352") // 2 x 176
	proj := mustProject(t, p)

	require.Equal(t, 2, proj.Len())
	last := proj.Records[1]
	assert.True(t, last.Terminal)
	assert.True(t, last.OpeningBacklog.Equal(dec("176")))
	assert.Equal(t, 20, last.Workdays)
	assert.True(t, last.ClosingBacklog.IsZero())
}

func TestProject_UnroundedAccumulation(t *testing.T) {
	// GIVEN: Rates whose monthly net reduction has more than one decimal
	// WHEN: Projecting several periods
	// THEN: The running backlog carries every digit, no display rounding

	p := referenceParams()
	p.BacklogStart = dec("1000")
	p.NewPerDay = dec("1.23")
	proj := mustProject(t, p)

	// 200 - 24.6 = 175.4 per month
	assert.True(t, proj.Records[0].ClosingBacklog.Equal(dec("824.6")))
	assert.True(t, proj.Records[1].ClosingBacklog.Equal(dec("649.2")))
	assert.True(t, proj.Records[2].ClosingBacklog.Equal(dec("473.8")))
}

func TestProject_YearRollover(t *testing.T) {
	p := referenceParams()
	p.StartMonth = time.November
	proj := mustProject(t, p)

	labels := proj.Labels()
	assert.Equal(t, []string{"2025-11", "2025-12", "2026-01", "2026-02"}, labels[:4])
}

// =============================================================================
// EDGE CASES & ERRORS
// =============================================================================

func TestProject_DegenerateBacklog(t *testing.T) {
	for _, start := range []string{"0", "-10"} {
		p := referenceParams()
		p.BacklogStart = dec(start)

		proj, err := backlog.Project(p)
		require.NoError(t, err)
		assert.True(t, proj.IsEmpty())
		assert.NotNil(t, proj.Records)

		_, ok := proj.Summary()
		assert.False(t, ok)
	}
}

func TestProject_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*backlog.Params)
		field string
	}{
		{"process equals new", func(p *backlog.Params) { p.ProcessPerDay, p.NewPerDay = dec("5"), dec("5") }, "process_per_day"},
		{"new exceeds process", func(p *backlog.Params) { p.NewPerDay = dec("12") }, "process_per_day"},
		{"zero process", func(p *backlog.Params) { p.ProcessPerDay = decimal.Zero }, "process_per_day"},
		{"zero new", func(p *backlog.Params) { p.NewPerDay = decimal.Zero }, "new_per_day"},
		{"negative new", func(p *backlog.Params) { p.NewPerDay = dec("-1") }, "new_per_day"},
		{"zero workdays", func(p *backlog.Params) { p.WorkdaysPerMonth = 0 }, "workdays_per_month"},
		{"month 13", func(p *backlog.Params) { p.StartMonth = 13 }, "start_month"},
		{"negative horizon", func(p *backlog.Params) { p.MaxPeriods = -1 }, "max_periods"},
		{"year zero", func(p *backlog.Params) { p.StartYear = 0 }, "start_year"},
		{"five-digit year", func(p *backlog.Params) { p.StartYear = 10000 }, "start_year"},
		{"ends after 9999", func(p *backlog.Params) { p.StartYear, p.StartMonth = 9999, time.December }, "start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := referenceParams()
			tt.mod(&p)

			proj, err := backlog.Project(p)
			assert.Nil(t, proj)
			require.Error(t, err)
			assert.True(t, errors.Is(err, backlog.ErrInvalidConfiguration))
			assert.True(t, backlog.IsClientError(err))

			var cfgErr *backlog.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestProject_InvalidConfigurationEvenWithEmptyBacklog(t *testing.T) {
	p := referenceParams()
	p.BacklogStart = decimal.Zero
	p.NewPerDay = dec("10")

	_, err := backlog.Project(p)
	assert.ErrorIs(t, err, backlog.ErrInvalidConfiguration)
}

func TestProject_HorizonExceeded(t *testing.T) {
	p := referenceParams()
	p.MaxPeriods = 12

	_, err := backlog.Project(p)
	require.ErrorIs(t, err, backlog.ErrHorizonExceeded)

	var hErr *backlog.HorizonError
	require.ErrorAs(t, err, &hErr)
	assert.Equal(t, "15", hErr.Needed.String())
	assert.Equal(t, 12, hErr.Limit)

	p.MaxPeriods = 15
	proj := mustProject(t, p)
	assert.Equal(t, 15, proj.Len())
}

func TestProject_HugeBacklogHitsDefaultHorizon(t *testing.T) {
	// GIVEN: A valid configuration whose period count does not fit an int
	// WHEN: Projecting with MaxPeriods left at 0
	// THEN: The default horizon rejects it before anything is allocated

	p := referenceParams()
	p.BacklogStart = dec("1e30")
	p.ProcessPerDay = dec("1.0000001")
	p.NewPerDay = dec("1")

	proj, err := backlog.Project(p)
	assert.Nil(t, proj)
	require.ErrorIs(t, err, backlog.ErrHorizonExceeded)

	var hErr *backlog.HorizonError
	require.ErrorAs(t, err, &hErr)
	assert.Equal(t, backlog.DefaultMaxPeriods, hErr.Limit)
	assert.True(t, hErr.Needed.GreaterThan(decimal.NewFromInt(1e15)))
}

func TestProject_DefaultHorizonBoundary(t *testing.T) {
	p := referenceParams()
	p.BacklogStart = dec("176").Mul(decimal.NewFromInt(backlog.DefaultMaxPeriods))

	proj := mustProject(t, p)
	assert.Equal(t, backlog.DefaultMaxPeriods, proj.Len())

	p.BacklogStart = p.BacklogStart.Add(decimal.NewFromInt(1))
	_, err := backlog.Project(p)
	assert.ErrorIs(t, err, backlog.ErrHorizonExceeded)
}

func TestProject_LastPeriodYear(t *testing.T) {
	// 15 periods from 9998-08 end in 9999-10
	p := referenceParams()
	p.StartYear = 9998

	proj := mustProject(t, p)
	last, _ := proj.Terminal()
	assert.Equal(t, "9999-10", last.Period.String())

	// and the label reads back
	back, err := backlog.ParseYearMonth(last.Period.String())
	require.NoError(t, err)
	assert.True(t, back.Equal(last.Period))
}

func TestProject_Deterministic(t *testing.T) {
	a := mustProject(t, referenceParams())
	b := mustProject(t, referenceParams())
	assert.Equal(t, a.Records, b.Records)
}

// =============================================================================
// WHAT-IF
// =============================================================================

func TestCompareThroughput_TwoMoreItemsPerDay(t *testing.T) {
	// GIVEN: The reference scenario
	// WHEN: Processing 2 more items per day
	// THEN: 12/day - 1.2 = 10.8 net, 216/month, zero in 2026-08, two months earlier

	w, err := backlog.CompareThroughput(referenceParams(), dec("2"))
	require.NoError(t, err)

	assert.Equal(t, "2026-10", w.Baseline.ZeroMonth.String())
	assert.Equal(t, "2026-08", w.Improved.ZeroMonth.String())
	assert.Equal(t, 2, w.PeriodsSaved)
}

func TestCompareThroughput_Errors(t *testing.T) {
	_, err := backlog.CompareThroughput(referenceParams(), decimal.Zero)
	assert.ErrorIs(t, err, backlog.ErrInvalidConfiguration)

	empty := referenceParams()
	empty.BacklogStart = decimal.Zero
	_, err = backlog.CompareThroughput(empty, dec("2"))
	assert.ErrorIs(t, err, backlog.ErrEmptyProjection)

	invalid := referenceParams()
	invalid.NewPerDay = dec("20")
	_, err = backlog.CompareThroughput(invalid, dec("2"))
	assert.ErrorIs(t, err, backlog.ErrInvalidConfiguration)
}
