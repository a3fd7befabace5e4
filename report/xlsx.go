package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/warp/backlog-report/backlog"
)

// SheetName is the worksheet the ledger is written to.
const SheetName = "Backlog"

// cell number formats, by column index
var xlsxNumFmt = []string{"", "#,##0", "#,##0.0", "#,##0", "#,##0.0", "#,##0"}

// WriteXLSX writes the ledger as a workbook with a styled, frozen header row.
// Values are written as numbers so the sheet stays computable.
func WriteXLSX(w io.Writer, records []backlog.MonthlyRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2E86AB"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	colStyles := make([]int, len(Columns))
	for i, numFmt := range xlsxNumFmt {
		style := &excelize.Style{Alignment: &excelize.Alignment{Horizontal: "right"}}
		if numFmt != "" {
			style.CustomNumFmt = &numFmt
		} else {
			style.Alignment.Horizontal = "center"
		}
		id, err := f.NewStyle(style)
		if err != nil {
			return fmt.Errorf("create column style: %w", err)
		}
		colStyles[i] = id
	}

	for i, c := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, c.Title); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, colName, colName, 18); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Columns))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetRowHeight(SheetName, 1, 30); err != nil {
		return fmt.Errorf("header height: %w", err)
	}

	for i, r := range records {
		row := i + 2
		values := []any{
			r.Period.String(),
			r.OpeningBacklog.InexactFloat64(),
			r.NewItems.Round(1).InexactFloat64(),
			r.ProcessedItems.Round(0).InexactFloat64(),
			r.NetReduction.Round(1).InexactFloat64(),
			r.ClosingBacklog.Round(0).InexactFloat64(),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return fmt.Errorf("write row %s: %w", r.Period, err)
		}
		for c, style := range colStyles {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
				return fmt.Errorf("style row %s: %w", r.Period, err)
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
