package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/warp/backlog-report/backlog"
)

// Artifact file name templates. "{start}" expands to the start period as YYYYMM.
const (
	DefaultCSVName   = "backlog_monthly_{start}_start.csv"
	DefaultChartName = "backlog_trend_{start}.png"
	DefaultPDFName   = "backlog_report_{start}.pdf"
	DefaultXLSXName  = "backlog_monthly_{start}_start.xlsx"
)

// FileNames holds the artifact name templates.
type FileNames struct {
	CSV   string
	Chart string
	PDF   string
	XLSX  string
}

// DefaultFileNames returns the default templates.
func DefaultFileNames() FileNames {
	return FileNames{CSV: DefaultCSVName, Chart: DefaultChartName, PDF: DefaultPDFName, XLSX: DefaultXLSXName}
}

// Artifacts lists what one Generate call wrote.
type Artifacts struct {
	Dir   string
	CSV   string
	Chart string
	PDF   string
	XLSX  string
}

// Paths returns the written files in write order.
func (a *Artifacts) Paths() []string {
	return []string{a.CSV, a.Chart, a.PDF, a.XLSX}
}

// Generator writes every report artifact for a projection into a directory.
type Generator struct {
	Names          FileNames
	Chart          ChartOptions
	FontCandidates []string
	Logger         *zap.Logger
}

// NewGenerator returns a Generator with default names, chart and fonts.
func NewGenerator(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		Names:          DefaultFileNames(),
		Chart:          DefaultChartOptions(),
		FontCandidates: DefaultFontCandidates,
		Logger:         logger,
	}
}

// Generate writes the CSV, chart, PDF and XLSX files into dir, creating it if
// needed. whatIf is optional and only feeds the PDF narrative.
//
// Chart and PDF need at least one record; an empty projection fails with
// backlog.ErrEmptyProjection before anything is written.
func (g *Generator) Generate(ctx context.Context, proj *backlog.Projection, whatIf *backlog.WhatIf, dir string) (*Artifacts, error) {
	if proj.IsEmpty() {
		return nil, backlog.ErrEmptyProjection
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	start := proj.Params.Start()
	a := &Artifacts{
		Dir:   dir,
		CSV:   filepath.Join(dir, ExpandName(g.Names.CSV, start)),
		Chart: filepath.Join(dir, ExpandName(g.Names.Chart, start)),
		PDF:   filepath.Join(dir, ExpandName(g.Names.PDF, start)),
		XLSX:  filepath.Join(dir, ExpandName(g.Names.XLSX, start)),
	}

	steps := []struct {
		kind  string
		path  string
		write func(io.Writer) error
	}{
		{"csv", a.CSV, func(w io.Writer) error { return WriteCSV(w, proj.Records) }},
		{"chart", a.Chart, func(w io.Writer) error { return RenderChart(w, proj.Records, g.Chart) }},
		{"pdf", a.PDF, func(w io.Writer) error {
			return WritePDF(w, proj, PDFOptions{
				FontCandidates: g.FontCandidates,
				Chart:          g.Chart,
				WhatIf:         whatIf,
				Logger:         g.Logger,
			})
		}},
		{"xlsx", a.XLSX, func(w io.Writer) error { return WriteXLSX(w, proj.Records) }},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := writeFile(s.path, s.write); err != nil {
			return nil, fmt.Errorf("write %s: %w", s.kind, err)
		}
		g.Logger.Info("report artifact written", zap.String("kind", s.kind), zap.String("path", s.path))
	}
	return a, nil
}

// ExpandName substitutes the start period into a file name template.
func ExpandName(template string, start backlog.YearMonth) string {
	return strings.ReplaceAll(template, "{start}", fmt.Sprintf("%04d%02d", start.Year, int(start.Month)))
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
