/*
Package report renders a backlog projection.

PURPOSE:
  Every renderer here is a read-only consumer of a backlog.Projection. None
  of them reach back into the engine: they take records (and the derived
  Summary) as plain data and write bytes.

RENDERERS:
  csv.go:       Delimited table, UTF-8 with BOM so spreadsheet apps pick up the encoding
  xlsx.go:      Styled workbook (excelize)
  chart.go:     PNG line chart of closing backlog per month (go-chart)
  narrative.go: Summary text for the PDF first page and the CLI
  pdf.go:       Two-page A4 report (maroto)
  generator.go: Writes all of the above into a directory

NUMBER FORMATS:
  Column            Machine (CSV)   Display (PDF)
  opening backlog   exact           grouped integer
  new items         1 decimal       grouped, 1 decimal
  processed items   integer         grouped integer
  net reduction     1 decimal       grouped, 1 decimal
  closing backlog   integer         grouped integer

SEE ALSO:
  - backlog/types.go: MonthlyRecord
*/
package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/warp/backlog-report/backlog"
)

// =============================================================================
// COLUMNS
// =============================================================================

// Column describes one table column.
type Column struct {
	Key   string // machine header (CSV)
	Title string // display header (PDF, XLSX)
}

// Columns is the fixed column order shared by every tabular renderer.
var Columns = []Column{
	{Key: "month", Title: "Month"},
	{Key: "opening_backlog", Title: "Opening backlog"},
	{Key: "new_items", Title: "New (items/month)"},
	{Key: "processed_items", Title: "Processed (items/month)"},
	{Key: "net_reduction", Title: "Net reduction (items/month)"},
	{Key: "closing_backlog", Title: "Closing backlog"},
}

// MachineRow formats a record for CSV: no grouping, fixed decimals.
func MachineRow(r backlog.MonthlyRecord) []string {
	return []string{
		r.Period.String(),
		r.OpeningBacklog.String(),
		r.NewItems.StringFixed(1),
		r.ProcessedItems.StringFixed(0),
		r.NetReduction.StringFixed(1),
		r.ClosingBacklog.StringFixed(0),
	}
}

// DisplayRow formats a record for people: thousands separators.
func DisplayRow(r backlog.MonthlyRecord) []string {
	return []string{
		r.Period.String(),
		FormatInt(r.OpeningBacklog),
		FormatOneDecimal(r.NewItems),
		FormatInt(r.ProcessedItems),
		FormatOneDecimal(r.NetReduction),
		FormatInt(r.ClosingBacklog),
	}
}

// =============================================================================
// NUMBER FORMATTING
// =============================================================================

var printer = message.NewPrinter(language.English)

// FormatInt rounds to a whole number and groups thousands: 2600 -> "2,600".
func FormatInt(d decimal.Decimal) string {
	return printer.Sprintf("%d", d.Round(0).IntPart())
}

// FormatOneDecimal groups thousands with one decimal: 19.2 -> "19.2", 1760 -> "1,760.0".
func FormatOneDecimal(d decimal.Decimal) string {
	return groupFixed(d.StringFixed(1))
}

// FormatQuantity groups thousands and keeps only significant decimals:
// 2600 -> "2,600", 1.2 -> "1.2", 175.40 -> "175.4".
func FormatQuantity(d decimal.Decimal) string {
	return groupFixed(d.String())
}

// groupFixed groups the integer part of a plain decimal string.
func groupFixed(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, hasFrac := strings.Cut(s, ".")
	n, err := decimal.NewFromString(intPart)
	if err != nil {
		return s
	}
	out := printer.Sprintf("%d", n.IntPart())
	if hasFrac {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
