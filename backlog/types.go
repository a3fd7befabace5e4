/*
Package backlog provides the backlog projection engine.

PURPOSE:
  Given a starting backlog, a daily processing rate, a daily inflow of new
  items and the number of workdays per month, the engine produces a monthly
  ledger until the backlog reaches zero. Every renderer (CSV, chart, PDF,
  XLSX) and the HTTP API consume the resulting Projection read-only.

KEY CONCEPTS IN THIS FILE (types.go):
  - Params: Immutable inputs of one projection
  - Rates: Period constants derived once from Params
  - MonthlyRecord: One ledger row per period
  - Projection: Params + Rates + the ordered records

DESIGN PRINCIPLES:
  1. Explicit inputs: No process-wide state, every run is a pure function of Params
  2. Precision: decimal.Decimal carries the running backlog unrounded
  3. Immutability: Records are appended during Project and never touched again

USAGE:
  proj, err := backlog.Project(backlog.Params{
      StartYear:        2025,
      StartMonth:       time.August,
      BacklogStart:     decimal.NewFromInt(2600),
      ProcessPerDay:    decimal.NewFromInt(10),
      NewPerDay:        decimal.RequireFromString("1.2"),
      WorkdaysPerMonth: 20,
  })
  summary, _ := proj.Summary()
  fmt.Println(summary.ZeroMonth, summary.FinalWorkdays) // 2026-10 16

SEE ALSO:
  - engine.go: The projection loop
  - params.go: Validation and derived rates
  - errors.go: Error taxonomy
*/
package backlog

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PARAMS - Inputs of one projection
// =============================================================================

// Params holds the inputs of one projection. Pass by value.
type Params struct {
	StartYear        int
	StartMonth       time.Month
	BacklogStart     decimal.Decimal
	ProcessPerDay    decimal.Decimal
	NewPerDay        decimal.Decimal
	WorkdaysPerMonth int

	// MaxPeriods caps the number of periods. 0 = DefaultMaxPeriods.
	MaxPeriods int
}

// Start returns the first ledger period.
func (p Params) Start() YearMonth { return NewYearMonth(p.StartYear, p.StartMonth) }

// Rates are the period constants computed once per projection.
type Rates struct {
	MonthlyProcess      decimal.Decimal
	MonthlyNew          decimal.Decimal
	MonthlyNetReduction decimal.Decimal
	DailyNetReduction   decimal.Decimal
}

// =============================================================================
// MONTHLY RECORD - One row of the ledger
// =============================================================================

// MonthlyRecord is one period of the projection.
type MonthlyRecord struct {
	Period         YearMonth
	OpeningBacklog decimal.Decimal
	NewItems       decimal.Decimal
	ProcessedItems decimal.Decimal
	NetReduction   decimal.Decimal
	ClosingBacklog decimal.Decimal

	// Workdays is the number of workdays the period ran for. Equals
	// WorkdaysPerMonth except in the terminal period.
	Workdays int

	// Terminal marks the period in which the backlog reaches zero.
	Terminal bool
}

// =============================================================================
// PROJECTION - Engine output
// =============================================================================

// Projection is the complete output of one engine run.
type Projection struct {
	Params  Params
	Rates   Rates
	Records []MonthlyRecord
}

// Len returns the number of periods.
func (p *Projection) Len() int { return len(p.Records) }

// IsEmpty is true for a degenerate (non-positive) starting backlog.
func (p *Projection) IsEmpty() bool { return len(p.Records) == 0 }

// Terminal returns the last record, which is always the terminal period.
func (p *Projection) Terminal() (MonthlyRecord, bool) {
	if p.IsEmpty() {
		return MonthlyRecord{}, false
	}
	return p.Records[len(p.Records)-1], true
}

// Labels returns the period labels in order.
func (p *Projection) Labels() []string {
	labels := make([]string, len(p.Records))
	for i, r := range p.Records {
		labels[i] = r.Period.String()
	}
	return labels
}

// ClosingSeries returns the closing backlog of every period as float64,
// for chart rendering only.
func (p *Projection) ClosingSeries() []float64 {
	values := make([]float64, len(p.Records))
	for i, r := range p.Records {
		values[i] = r.ClosingBacklog.InexactFloat64()
	}
	return values
}
