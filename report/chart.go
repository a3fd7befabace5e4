package report

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/warp/backlog-report/backlog"
)

// ChartOptions controls the trend chart.
type ChartOptions struct {
	Title  string
	XLabel string
	YLabel string
	Width  int // pixels
	Height int // pixels
	DPI    float64
}

// DefaultChartOptions renders a 12x8 inch chart at 100 DPI.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Title:  "Backlog trend (monthly)",
		XLabel: "Month",
		YLabel: "Backlog (items)",
		Width:  1200,
		Height: 800,
		DPI:    100,
	}
}

var (
	lineColor = drawing.ColorFromHex("2E86AB")
	gridColor = drawing.ColorFromHex("DDDDDD")
)

// RenderChart draws closing backlog per period as a PNG line with markers.
// Periods are categorical: one tick per label, rotated 45 degrees.
func RenderChart(w io.Writer, records []backlog.MonthlyRecord, opts ChartOptions) error {
	if len(records) == 0 {
		return backlog.ErrEmptyProjection
	}
	if opts.Width == 0 || opts.Height == 0 {
		def := DefaultChartOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}

	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	ticks := make([]chart.Tick, len(records))
	for i, r := range records {
		xs[i] = float64(i)
		ys[i] = r.ClosingBacklog.InexactFloat64()
		ticks[i] = chart.Tick{Value: float64(i), Label: r.Period.String()}
	}

	// Explicit ranges: a single point, or an all-zero series, would
	// otherwise collapse the axis to zero width.
	yMax := records[0].OpeningBacklog.InexactFloat64()
	for _, y := range ys {
		yMax = math.Max(yMax, y)
	}
	yMax = math.Max(1, yMax*1.05)

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		DPI:    opts.DPI,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 30, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:      opts.XLabel,
			Ticks:     ticks,
			Range:     &chart.ContinuousRange{Min: -0.5, Max: float64(len(records)) - 0.5},
			TickStyle: chart.Style{TextRotationDegrees: 45},
		},
		YAxis: chart.YAxis{
			Name:           opts.YLabel,
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: thousandsFormatter,
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Closing backlog",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					DotColor:    lineColor,
					DotWidth:    4,
				},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func thousandsFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return printer.Sprintf("%d", int64(math.Round(f)))
}
