package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/warp/backlog-report/backlog"
)

// utf8BOM lets spreadsheet applications detect UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the header row then one row per record.
// An empty record slice produces the header only.
func WriteCSV(w io.Writer, records []backlog.MonthlyRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(Columns))
	for i, c := range Columns {
		header[i] = c.Key
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		if err := cw.Write(MachineRow(r)); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.Period, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
