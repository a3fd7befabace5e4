/*
engine.go - Monthly backlog depletion projection

PURPOSE:
  Produces the monthly ledger that every renderer consumes. One call, one
  finite sequence, no side effects.

ALGORITHM:
  1. Validate params and derive Rates once
  2. Walk month by month from (StartYear, StartMonth) while backlog > 0
  3. Normal period: full-month rates, closing = opening - MonthlyNetReduction
  4. Terminal period (opening <= MonthlyNetReduction): only the workdays
     needed to reach zero are counted,
       finalWorkdays = ceil(opening / DailyNetReduction)
     and the period totals are recomputed from finalWorkdays. Closing is
     clamped at zero and the loop stops.

PRECISION:
  The running backlog is never rounded. Display rounding (one decimal for
  inflow and net reduction) belongs to the renderers. Rounding here would
  drift from the reference ledger after a few periods.

TERMINATION:
  Validate rejects ProcessPerDay <= NewPerDay, so MonthlyNetReduction > 0
  and each normal period strictly shrinks the backlog. The terminal branch
  always fires within ceil(BacklogStart / MonthlyNetReduction) periods.
  That count is checked in decimal against MaxPeriods (DefaultMaxPeriods
  when 0) before anything is allocated, and the last period must fall in
  or before year 9999.

EXAMPLE:
  2600 items, 10/day processed, 1.2/day new, 20 workdays:
    2025-08  2600 -> 2424
    2025-09  2424 -> 2248
    ...
    2026-09   312 ->  136
    2026-10   136 ->    0   (16 workdays: ceil(136 / 8.8))

SEE ALSO:
  - params.go: Validate, Rates, FinalWorkdays
  - summary.go: Derived scalars for renderers
*/
package backlog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Project runs the engine. It fails before producing any record when params
// are invalid or the horizon cap would be exceeded.
func Project(p Params) (*Projection, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rates := p.Rates()
	proj := &Projection{Params: p, Rates: rates}

	if !p.BacklogStart.IsPositive() {
		proj.Records = []MonthlyRecord{}
		return proj, nil
	}

	needed := rates.PeriodsNeeded(p.BacklogStart)
	limit := p.Limit()
	if needed.GreaterThan(decimal.NewFromInt(int64(limit))) {
		return nil, &HorizonError{Needed: needed, Limit: limit}
	}

	periods := int(needed.IntPart())
	if last := p.Start().AddMonths(periods - 1); last.Year > MaxYear {
		return nil, &ConfigurationError{
			Field:  "start",
			Value:  p.Start().String(),
			Reason: fmt.Sprintf("projection would end in %s, after year %d", last, MaxYear),
		}
	}

	records := make([]MonthlyRecord, 0, periods)
	current := p.BacklogStart
	cursor := p.Start()

	for current.IsPositive() {
		opening := current

		if opening.LessThanOrEqual(rates.MonthlyNetReduction) {
			records = append(records, terminalRecord(p, rates, cursor, opening))
			break
		}

		closing := opening.Sub(rates.MonthlyNetReduction)
		records = append(records, MonthlyRecord{
			Period:         cursor,
			OpeningBacklog: opening,
			NewItems:       rates.MonthlyNew,
			ProcessedItems: rates.MonthlyProcess,
			NetReduction:   rates.MonthlyNetReduction,
			ClosingBacklog: closing,
			Workdays:       p.WorkdaysPerMonth,
		})

		current = closing
		cursor = cursor.Next()
	}

	proj.Records = records
	return proj, nil
}

// terminalRecord counts only the workdays needed to drain opening.
func terminalRecord(p Params, rates Rates, period YearMonth, opening decimal.Decimal) MonthlyRecord {
	finalWorkdays := rates.FinalWorkdays(opening)
	days := decimal.NewFromInt(int64(finalWorkdays))

	processed := days.Mul(p.ProcessPerDay)
	inflow := days.Mul(p.NewPerDay)
	net := processed.Sub(inflow)

	return MonthlyRecord{
		Period:         period,
		OpeningBacklog: opening,
		NewItems:       inflow,
		ProcessedItems: processed,
		NetReduction:   net,
		ClosingBacklog: decimal.Max(decimal.Zero, opening.Sub(net)),
		Workdays:       finalWorkdays,
		Terminal:       true,
	}
}
