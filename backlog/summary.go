package backlog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SUMMARY - Derived scalars handed to renderers
// =============================================================================

// Summary is what the narrative text and the API report alongside the records.
type Summary struct {
	Start         YearMonth
	ZeroMonth     YearMonth
	FinalWorkdays int
	Periods       int

	BacklogStart     decimal.Decimal
	ProcessPerDay    decimal.Decimal
	NewPerDay        decimal.Decimal
	WorkdaysPerMonth int
	Rates            Rates
}

// Summary returns the derived scalars. ok is false for an empty projection.
//
// FinalWorkdays is recomputed from the terminal opening backlog rather than
// read from the record so the two stay independently checkable.
func (p *Projection) Summary() (Summary, bool) {
	last, ok := p.Terminal()
	if !ok {
		return Summary{}, false
	}
	return Summary{
		Start:            p.Params.Start(),
		ZeroMonth:        last.Period,
		FinalWorkdays:    p.Rates.FinalWorkdays(last.OpeningBacklog),
		Periods:          len(p.Records),
		BacklogStart:     p.Params.BacklogStart,
		ProcessPerDay:    p.Params.ProcessPerDay,
		NewPerDay:        p.Params.NewPerDay,
		WorkdaysPerMonth: p.Params.WorkdaysPerMonth,
		Rates:            p.Rates,
	}, true
}

// =============================================================================
// WHAT-IF - Throughput improvement comparison
// =============================================================================

// WhatIf compares a baseline projection with one processing more per day.
type WhatIf struct {
	ExtraPerDay  decimal.Decimal
	Baseline     Summary
	Improved     Summary
	PeriodsSaved int
}

// CompareThroughput projects p as given and with ProcessPerDay raised by
// extraPerDay. Both projections must be non-empty.
func CompareThroughput(p Params, extraPerDay decimal.Decimal) (*WhatIf, error) {
	if !extraPerDay.IsPositive() {
		return nil, &ConfigurationError{
			Field:  "extra_per_day",
			Value:  extraPerDay.String(),
			Reason: "must be positive",
		}
	}

	base, err := Project(p)
	if err != nil {
		return nil, fmt.Errorf("baseline projection: %w", err)
	}

	improvedParams := p
	improvedParams.ProcessPerDay = p.ProcessPerDay.Add(extraPerDay)
	improved, err := Project(improvedParams)
	if err != nil {
		return nil, fmt.Errorf("improved projection: %w", err)
	}

	baseSummary, ok := base.Summary()
	if !ok {
		return nil, ErrEmptyProjection
	}
	improvedSummary, _ := improved.Summary()

	return &WhatIf{
		ExtraPerDay:  extraPerDay,
		Baseline:     baseSummary,
		Improved:     improvedSummary,
		PeriodsSaved: improvedSummary.ZeroMonth.MonthsUntil(baseSummary.ZeroMonth),
	}, nil
}
