// Package chart renders a solve's bound-convergence history to an HTML
// line chart.
//
// Grounded directly on the Plot function
// (assignment3/mdp/policy_run_plot.go): a go-echarts Line chart with a
// shine theme, one series per tracked quantity, rendered into a page and
// written to disk. Adapted from "one series per policy's average reward
// over training steps" to "lower/upper bound series over backup count."
package chart

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Point is one sample of a solve's convergence history.
type Point struct {
	Backups int
	Lower   float64
	Upper   float64
}

// WriteConvergence renders points as an HTML line chart at path, with a
// lower-bound series and (if any point has Upper != Lower) an upper-bound
// series.
func WriteConvergence(path string, points []Point) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "bound convergence",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	xs := make([]string, len(points))
	lower := make([]opts.LineData, len(points))
	upper := make([]opts.LineData, len(points))
	hasInterval := false
	for i, p := range points {
		xs[i] = fmt.Sprintf("%d", p.Backups)
		lower[i] = opts.LineData{Value: p.Lower}
		upper[i] = opts.LineData{Value: p.Upper}
		if p.Upper != p.Lower {
			hasInterval = true
		}
	}

	line = line.SetXAxis(xs)
	line.AddSeries("lower bound", lower)
	if hasInterval {
		line.AddSeries("upper bound", upper)
	}

	page := components.NewPage()
	page.AddCharts(line)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("chart: creating %s: %w", path, err)
	}
	defer f.Close()

	return page.Render(io.MultiWriter(f))
}
