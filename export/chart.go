package export

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ProgressPoint is one session's headline metric for charting, oldest first.
type ProgressPoint struct {
	Date  string
	Value float64
}

// SaveProgressChart renders a weight-over-time line chart as a standalone
// HTML file and returns its path.
func (m *Manager) SaveProgressChart(exercise string, points []ProgressPoint) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("no progress points to chart for %q", exercise)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "macarons", PageTitle: exercise + " progress"}),
		charts.WithTitleOpts(opts.Title{
			Title:    exercise,
			Subtitle: "Max weight per session (kg)",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
	)

	dates := make([]string, 0, len(points))
	values := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		dates = append(dates, p.Date)
		values = append(values, opts.LineData{Value: p.Value})
	}

	line.SetXAxis(dates)
	line.AddSeries("max weight", values)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	path := m.newPath(".html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return path, nil
}
