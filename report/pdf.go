package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"go.uber.org/zap"

	"github.com/warp/backlog-report/backlog"
)

// customFontFamily is the family name a resolved TTF is registered under.
const customFontFamily = "report-font"

// PDFOptions controls the PDF report.
type PDFOptions struct {
	// FontCandidates are probed in order; the first existing file is embedded.
	// When none exists the built-in font is used and a warning is logged.
	FontCandidates []string

	Chart  ChartOptions
	WhatIf *backlog.WhatIf
	Logger *zap.Logger
}

var (
	accentColor = &props.Color{Red: 46, Green: 134, Blue: 171}
	white       = &props.Color{Red: 255, Green: 255, Blue: 255}
	mutedColor  = &props.Color{Red: 100, Green: 116, Blue: 139}
	stripeColor = &props.Color{Red: 242, Green: 246, Blue: 250}
)

// WritePDF writes a two-page A4 report: narrative and chart first, then the
// formatted monthly table.
func WritePDF(w io.Writer, proj *backlog.Projection, opts PDFOptions) error {
	summary, ok := proj.Summary()
	if !ok {
		return backlog.ErrEmptyProjection
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var png bytes.Buffer
	if err := RenderChart(&png, proj.Records, opts.Chart); err != nil {
		return err
	}

	cfg, err := pdfConfig(opts.FontCandidates, logger)
	if err != nil {
		return err
	}
	m := maroto.New(cfg)

	m.AddRows(narrativeRows(Narrative(summary, opts.WhatIf))...)
	m.AddRow(120, col.New(12).Add(
		image.NewFromBytes(png.Bytes(), extension.Png, props.Rect{Center: true, Percent: 100}),
	))

	m.AddPages(page.New().Add(tableRows(proj.Records)...))

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("generate pdf: %w", err)
	}
	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func pdfConfig(candidates []string, logger *zap.Logger) (*entity.Config, error) {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15)

	family := fontfamily.Arial
	if path, ok := ResolveFont(candidates); ok {
		fonts, err := repository.New().
			AddUTF8Font(customFontFamily, fontstyle.Normal, path).
			AddUTF8Font(customFontFamily, fontstyle.Bold, path).
			Load()
		if err != nil {
			return nil, fmt.Errorf("load font %s: %w", path, err)
		}
		b = b.WithCustomFonts(fonts)
		family = customFontFamily
		logger.Debug("pdf font resolved", zap.String("path", path))
	} else {
		logger.Warn("no report font found, falling back to built-in font; non-Latin text may not render",
			zap.Strings("candidates", candidates))
	}

	return b.WithDefaultFont(&props.Font{Family: family, Size: 10}).Build(), nil
}

func narrativeRows(t Text) []core.Row {
	rows := []core.Row{
		row.New(16).Add(col.New(12).Add(text.New(t.Title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Center,
			Color: accentColor,
		}))),
	}
	for _, s := range t.Sections {
		rows = append(rows, row.New(9).Add(col.New(12).Add(text.New(s.Heading, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Top:   2,
		}))))
		for _, l := range s.Lines {
			rows = append(rows, row.New(6).Add(col.New(12).Add(text.New(l, props.Text{Size: 10}))))
		}
	}
	return rows
}

func tableRows(records []backlog.MonthlyRecord) []core.Row {
	rows := []core.Row{
		row.New(10).Add(col.New(12).Add(text.New("Monthly breakdown", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
		}))),
	}

	// six columns on a 12-unit grid
	const width = 2

	header := make([]core.Col, len(Columns))
	for i, c := range Columns {
		header[i] = col.New(width).Add(text.New(c.Title, props.Text{
			Size:  8,
			Style: fontstyle.Bold,
			Align: align.Center,
			Color: white,
			Top:   1,
		}))
	}
	rows = append(rows, row.New(10).Add(header...).WithStyle(&props.Cell{BackgroundColor: accentColor}))

	for i, r := range records {
		cells := DisplayRow(r)
		cols := make([]core.Col, len(cells))
		for j, v := range cells {
			a := align.Right
			if j == 0 {
				a = align.Center
			}
			cols[j] = col.New(width).Add(text.New(v, props.Text{Size: 9, Align: a, Right: 2, Top: 1}))
		}
		rw := row.New(6).Add(cols...)
		if i%2 == 1 {
			rw = rw.WithStyle(&props.Cell{BackgroundColor: stripeColor})
		}
		rows = append(rows, rw)
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(text.New(
		"The final month is pro-rated: only the workdays needed to clear the backlog are counted.",
		props.Text{Size: 8, Color: mutedColor, Top: 3},
	))))
	return rows
}
