package backlog

import (
	"fmt"
	"time"
)

// =============================================================================
// YEAR-MONTH - The unit of aggregation for the projection
// =============================================================================

// YearMonth identifies one calendar month of the projection.
// The zero value is not a valid period; use NewYearMonth or ParseYearMonth.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth returns the period for the given year and month.
func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

// ParseYearMonth parses a "YYYY-MM" label.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid period %q: expected YYYY-MM", s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Next returns the following month, rolling December over to January.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// AddMonths moves the period n months forward (or backward when n < 0).
func (ym YearMonth) AddMonths(n int) YearMonth {
	idx := ym.index() + n
	return YearMonth{Year: floorDiv(idx, 12), Month: time.Month(idx-floorDiv(idx, 12)*12) + 1}
}

// MonthsUntil returns the number of months from ym to other.
func (ym YearMonth) MonthsUntil(other YearMonth) int { return other.index() - ym.index() }

func (ym YearMonth) Before(other YearMonth) bool { return ym.index() < other.index() }
func (ym YearMonth) Equal(other YearMonth) bool  { return ym.index() == other.index() }
func (ym YearMonth) IsZero() bool                { return ym.Year == 0 && ym.Month == 0 }

// Valid reports whether the month is within 1-12.
func (ym YearMonth) Valid() bool { return ym.Month >= time.January && ym.Month <= time.December }

// String returns the "YYYY-MM" label used by every renderer.
func (ym YearMonth) String() string { return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month)) }

// FirstDay returns midnight UTC on the first day of the month.
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// MarshalText implements encoding.TextMarshaler so periods serialize as labels.
func (ym YearMonth) MarshalText() ([]byte, error) { return []byte(ym.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (ym *YearMonth) UnmarshalText(b []byte) error {
	parsed, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

func (ym YearMonth) index() int { return ym.Year*12 + int(ym.Month) - 1 }

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
