package backlog

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultMaxPeriods caps projections whose MaxPeriods is 0.
	DefaultMaxPeriods = 1200

	// MinYear and MaxYear bound every period, so labels stay four-digit YYYY-MM.
	MinYear = 1
	MaxYear = 9999
)

// Validate checks that the params describe a finite projection.
// The starting backlog is not checked: <= 0 yields an empty projection.
func (p Params) Validate() error {
	if p.StartYear < MinYear || p.StartYear > MaxYear {
		return &ConfigurationError{
			Field:  "start_year",
			Value:  strconv.Itoa(p.StartYear),
			Reason: "must be between 1 and 9999",
		}
	}
	if p.StartMonth < time.January || p.StartMonth > time.December {
		return &ConfigurationError{
			Field:  "start_month",
			Value:  strconv.Itoa(int(p.StartMonth)),
			Reason: "must be between 1 and 12",
		}
	}
	if !p.ProcessPerDay.IsPositive() {
		return &ConfigurationError{
			Field:  "process_per_day",
			Value:  p.ProcessPerDay.String(),
			Reason: "must be positive",
		}
	}
	if !p.NewPerDay.IsPositive() {
		return &ConfigurationError{
			Field:  "new_per_day",
			Value:  p.NewPerDay.String(),
			Reason: "must be positive",
		}
	}
	if p.WorkdaysPerMonth <= 0 {
		return &ConfigurationError{
			Field:  "workdays_per_month",
			Value:  strconv.Itoa(p.WorkdaysPerMonth),
			Reason: "must be positive",
		}
	}
	if p.ProcessPerDay.LessThanOrEqual(p.NewPerDay) {
		return &ConfigurationError{
			Field:  "process_per_day",
			Value:  p.ProcessPerDay.String(),
			Reason: "must exceed new_per_day (" + p.NewPerDay.String() + ") or the backlog never drains",
		}
	}
	if p.MaxPeriods < 0 {
		return &ConfigurationError{
			Field:  "max_periods",
			Value:  strconv.Itoa(p.MaxPeriods),
			Reason: "must not be negative",
		}
	}
	return nil
}

// Rates derives the period constants. Call Validate first.
func (p Params) Rates() Rates {
	workdays := decimal.NewFromInt(int64(p.WorkdaysPerMonth))
	monthlyProcess := p.ProcessPerDay.Mul(workdays)
	monthlyNew := p.NewPerDay.Mul(workdays)
	return Rates{
		MonthlyProcess:      monthlyProcess,
		MonthlyNew:          monthlyNew,
		MonthlyNetReduction: monthlyProcess.Sub(monthlyNew),
		DailyNetReduction:   p.ProcessPerDay.Sub(p.NewPerDay),
	}
}

// FinalWorkdays is the number of workdays needed to drain remaining at the
// daily net reduction rate, rounded up.
func (r Rates) FinalWorkdays(remaining decimal.Decimal) int {
	return int(ceilDiv(remaining, r.DailyNetReduction).IntPart())
}

// PeriodsNeeded is the closed-form period count for a starting backlog.
// It stays a decimal because the count can exceed any int.
func (r Rates) PeriodsNeeded(backlog decimal.Decimal) decimal.Decimal {
	if !backlog.IsPositive() {
		return decimal.Zero
	}
	return ceilDiv(backlog, r.MonthlyNetReduction)
}

// Limit is the effective period cap: MaxPeriods, or DefaultMaxPeriods when 0.
func (p Params) Limit() int {
	if p.MaxPeriods == 0 {
		return DefaultMaxPeriods
	}
	return p.MaxPeriods
}

// ceilDiv divides exactly: integer quotient plus one if anything remains.
func ceilDiv(a, b decimal.Decimal) decimal.Decimal {
	q, rem := a.QuoRem(b, 0)
	if rem.IsPositive() {
		q = q.Add(decimal.NewFromInt(1))
	}
	return q
}
